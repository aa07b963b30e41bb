// Package identity turns third-party sign-ins into verified identities.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ZameerHP/clipscript/internal/users"
	"github.com/ZameerHP/clipscript/pkg/config"
	"github.com/ZameerHP/clipscript/pkg/enums"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"github.com/ZameerHP/clipscript/pkg/security"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	maxUserInfoBytes  = 1 << 20
)

var googleScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// GoogleProvider runs the OAuth2 authorization-code flow against Google.
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// Option customizes a GoogleProvider.
type Option func(*GoogleProvider)

// WithEndpoint points the token exchange at a different authorization server.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(g *GoogleProvider) { g.oauth.Endpoint = endpoint }
}

// WithUserInfoURL overrides the profile endpoint.
func WithUserInfoURL(url string) Option {
	return func(g *GoogleProvider) { g.userInfoURL = url }
}

// WithHTTPClient sets the client used for both the exchange and the profile read.
func WithHTTPClient(client *http.Client) Option {
	return func(g *GoogleProvider) { g.httpClient = client }
}

// NewGoogle builds a provider from the configured client credentials.
func NewGoogle(cfg config.GoogleConfig, opts ...Option) (*GoogleProvider, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("google client id and secret are required")
	}
	g := &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       googleScopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewState returns an unguessable value to round-trip through the consent page.
func NewState() (string, error) {
	return security.RandomToken(32)
}

// AuthCodeURL is where the user grants access.
func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleProfile struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange trades an authorization code for the user's verified identity.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (users.ExternalIdentity, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return users.ExternalIdentity{}, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}
	if g.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	}

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return users.ExternalIdentity{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "google token exchange failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return users.ExternalIdentity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build userinfo request")
	}
	resp, err := g.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return users.ExternalIdentity{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "google userinfo request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoBytes))
	if err != nil {
		return users.ExternalIdentity{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read google userinfo")
	}
	if resp.StatusCode != http.StatusOK {
		return users.ExternalIdentity{}, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("google userinfo returned %d", resp.StatusCode))
	}

	var profile googleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return users.ExternalIdentity{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode google userinfo")
	}
	if strings.TrimSpace(profile.Email) == "" || !profile.EmailVerified {
		return users.ExternalIdentity{}, pkgerrors.New(pkgerrors.CodeValidation,
			"Your Google account has no verified email address.")
	}
	return users.ExternalIdentity{
		Provider:  enums.AuthProviderGoogle,
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.Picture,
	}, nil
}
