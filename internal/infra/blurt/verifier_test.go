package blurt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const alicePostingKey = "BLT7aliceposting111111111111111111111111111111111111"

func TestVerifyMatchingKey(t *testing.T) {
	node := fakeNode(t, `{"result":[{"name":"alice","posting":{"key_auths":[["`+alicePostingKey+`",1]]}}]}`)
	defer node.Close()

	verifier := NewVerifier(WithNodeURL(node.URL))
	ok, err := verifier.Verify(context.Background(), "alice", alicePostingKey)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to match")
	}
}

func TestVerifyWrongKey(t *testing.T) {
	node := fakeNode(t, `{"result":[{"name":"alice","posting":{"key_auths":[["`+alicePostingKey+`",1]]}}]}`)
	defer node.Close()

	verifier := NewVerifier(WithNodeURL(node.URL))
	ok, err := verifier.Verify(context.Background(), "alice", "BLT7somethingelse")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestVerifyUnknownAccount(t *testing.T) {
	node := fakeNode(t, `{"result":[]}`)
	defer node.Close()

	verifier := NewVerifier(WithNodeURL(node.URL))
	ok, err := verifier.Verify(context.Background(), "nobody", alicePostingKey)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatalf("unknown account must not verify")
	}
}

func TestVerifyNodeFailureIsError(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer node.Close()

	verifier := NewVerifier(WithNodeURL(node.URL))
	if _, err := verifier.Verify(context.Background(), "alice", alicePostingKey); err == nil {
		t.Fatalf("node failure must surface as error, not as bad credential")
	}
}

func TestVerifyRPCErrorIsError(t *testing.T) {
	node := fakeNode(t, `{"error":{"code":-32000,"message":"upstream timeout"}}`)
	defer node.Close()

	verifier := NewVerifier(WithNodeURL(node.URL))
	if _, err := verifier.Verify(context.Background(), "alice", alicePostingKey); err == nil {
		t.Fatalf("rpc error must surface as error")
	}
}

// fakeNode serves a canned condenser_api response and checks the request shape.
func fakeNode(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad rpc request: %v", err)
		}
		if req.Method != "condenser_api.get_accounts" {
			t.Errorf("unexpected method %q", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
}
