package authn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
)

const userPath = "/auth/v1/user"

// RemoteVerifier resolves bearer tokens against a Supabase-compatible auth
// endpoint.
type RemoteVerifier struct {
	logger lager.Logger
	client *http.Client
	url    string
	apiKey string
}

func NewRemoteVerifier(logger lager.Logger, url, apiKey string, timeout time.Duration) *RemoteVerifier {
	return &RemoteVerifier{
		logger: logger.Session("remote-verifier"),
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(url, "/"),
		apiKey: apiKey,
	}
}

type remoteUser struct {
	ID string `json:"id"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", auctiontypes.ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, "GET", v.url+userPath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("failed-to-reach-auth-server", err)
		return "", fmt.Errorf("%w: %s", auctiontypes.ErrUnauthorized, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Info("rejected-token", lager.Data{"status": resp.StatusCode})
		return "", auctiontypes.ErrUnauthorized
	}

	var user remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		v.logger.Error("failed-to-decode-user", err)
		return "", fmt.Errorf("%w: %s", auctiontypes.ErrUnauthorized, err)
	}
	if user.ID == "" {
		return "", auctiontypes.ErrUnauthorized
	}
	return user.ID, nil
}
