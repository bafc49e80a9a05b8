package oauth

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Google struct {
	config *oauth2.Config
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Configured() bool { return g.config.ClientID != "" }

func (g *Google) AuthURL(state string) string {
	return g.config.AuthCodeURL(state)
}

func (g *Google) Exchange(ctx context.Context, code string) (Profile, error) {
	body, err := exchangeAndFetch(ctx, g.config, code, googleUserinfoURL)
	if err != nil {
		return Profile{}, err
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := decodeProfile(body, &info); err != nil {
		return Profile{}, err
	}
	if strings.TrimSpace(info.Email) == "" {
		return Profile{}, ErrNoEmail
	}

	return Profile{
		Email:      info.Email,
		Name:       info.Name,
		AvatarURL:  info.Picture,
		Provider:   g.Name(),
		ProviderID: info.ID,
	}, nil
}

var _ Provider = (*Google)(nil)
