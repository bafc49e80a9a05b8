package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrNotConfigured means the provider's client credentials are absent.
	ErrNotConfigured = errors.New("oauth provider not configured")

	// ErrNoEmail is returned when the provider's userinfo response carries
	// no email address, without which no local account can be resolved.
	ErrNoEmail = errors.New("email not provided by oauth provider")
)

// Profile is the normalized identity extracted from a provider's userinfo
// endpoint.
type Profile struct {
	Email      string
	Name       string
	AvatarURL  string
	Provider   string
	ProviderID string
}

type Provider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// exchangeAndFetch runs the code-for-token exchange and reads the userinfo
// endpoint with the resulting access token.
func exchangeAndFetch(ctx context.Context, cfg *oauth2.Config, code, userinfoURL string) ([]byte, error) {
	if cfg.ClientID == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code for token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("userinfo request failed: status=%d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

func decodeProfile(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode userinfo: %w", err)
	}
	return nil
}
