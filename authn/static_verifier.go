package authn

import (
	"context"

	"github.com/agentbid/auction/auctiontypes"
)

// StaticVerifier accepts a fixed token to user id table. Useful for local
// runs and tests.
type StaticVerifier map[string]string

func (v StaticVerifier) Verify(ctx context.Context, token string) (string, error) {
	userID, ok := v[token]
	if !ok || token == "" {
		return "", auctiontypes.ErrUnauthorized
	}
	return userID, nil
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return header
}
