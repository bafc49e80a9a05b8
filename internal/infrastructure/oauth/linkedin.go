package oauth

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const linkedinUserinfoURL = "https://api.linkedin.com/v2/userinfo"

type LinkedIn struct {
	config *oauth2.Config
}

func NewLinkedIn(clientID, clientSecret, redirectURL string) *LinkedIn {
	return &LinkedIn{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedin.Endpoint,
		},
	}
}

func (l *LinkedIn) Name() string { return "linkedin" }

func (l *LinkedIn) Configured() bool { return l.config.ClientID != "" }

func (l *LinkedIn) AuthURL(state string) string {
	return l.config.AuthCodeURL(state)
}

func (l *LinkedIn) Exchange(ctx context.Context, code string) (Profile, error) {
	body, err := exchangeAndFetch(ctx, l.config, code, linkedinUserinfoURL)
	if err != nil {
		return Profile{}, err
	}

	var info struct {
		Sub     string `json:"sub"`
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
		Provider:   l.Name(),
		ProviderID: info.Sub,
	}, nil
}

var _ Provider = (*LinkedIn)(nil)
