// Package blurt verifies posting keys against a Blurt RPC node.
package blurt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultNodeURL = "https://rpc.blurt.world"

const defaultTimeout = 15 * time.Second

// Verifier asks a Blurt condenser API node whether a posting key authorizes
// an account. It never signs anything; the account's published posting
// key_auths are compared against the submitted key.
type Verifier struct {
	nodeURL string
	client  *http.Client
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithNodeURL points the verifier at a specific RPC node.
func WithNodeURL(url string) Option {
	return func(v *Verifier) {
		v.nodeURL = url
	}
}

// WithHTTPClient sets a custom HTTP client (timeout included).
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) {
		v.client = client
	}
}

func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{
		nodeURL: defaultNodeURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	Result []account `json:"result"`
	Error  *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type account struct {
	Name    string    `json:"name"`
	Posting authority `json:"posting"`
}

type authority struct {
	// KeyAuths pairs a public key with its weight: [["BLT7...", 1], ...]
	KeyAuths [][]json.RawMessage `json:"key_auths"`
}

// Verify reports whether postingKey is one of the account's posting keys.
// An unknown account or a mismatched key is (false, nil); node or decode
// failures are errors so callers never mistake an outage for a bad credential.
func (v *Verifier) Verify(ctx context.Context, username, postingKey string) (bool, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "condenser_api.get_accounts",
		Params:  []interface{}{[]string{username}},
		ID:      1,
	})
	if err != nil {
		return false, fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.nodeURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("call blurt node: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("blurt node returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read rpc response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return false, fmt.Errorf("decode rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return false, fmt.Errorf("blurt rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if len(rpcResp.Result) == 0 {
		// Account does not exist.
		return false, nil
	}

	for _, auth := range rpcResp.Result[0].Posting.KeyAuths {
		if len(auth) == 0 {
			continue
		}
		var key string
		if err := json.Unmarshal(auth[0], &key); err != nil {
			continue
		}
		if key == postingKey {
			return true, nil
		}
	}
	return false, nil
}
