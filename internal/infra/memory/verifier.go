package memory

import "context"

// StaticVerifier authorizes accounts from a fixed username -> posting key map.
// It stands in for the Blurt chain when running locally or in tests.
type StaticVerifier struct {
	accounts map[string]string
}

func NewStaticVerifier(accounts map[string]string) *StaticVerifier {
	return &StaticVerifier{accounts: accounts}
}

func (v *StaticVerifier) Verify(_ context.Context, username, postingKey string) (bool, error) {
	key, ok := v.accounts[username]
	return ok && key == postingKey, nil
}
