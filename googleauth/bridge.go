// Package googleauth drives the Google authorization-code exchange and
// maps the provider identity onto a local profile. The flow is the
// two-step redirect-out / callback machine; each step has typed inputs
// and outputs and no step before account creation has side effects, so an
// abandoned browser redirect leaves nothing behind.
//
// The completed flow hands the token and identity back to the frontend in
// the redirect query string. That is the behavior this service's clients
// depend on, but query parameters end up in browser history and referrer
// headers; moving to fragment delivery or a one-time code exchange needs
// a coordinated frontend change.
package googleauth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

var (
	ErrInvalidRedirectTarget = errors.New("invalid redirect target")
	ErrMissingEmail          = errors.New("provider profile has no email")
)

// Profile is the provider identity extracted from a verified ID token.
type Profile struct {
	Subject      string // Google subject id
	Email        string
	Name         string
	RefreshToken string // Present on first authorization (forced consent)
}

// Bridge mediates the OAuth2/OIDC conversation with Google.
type Bridge struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier

	// Seams for testing; default to the real oauth2/oidc calls.
	exchange       func(ctx context.Context, code string) (*oauth2.Token, error)
	resolveProfile func(ctx context.Context, tok *oauth2.Token) (Profile, error)

	skipDiscovery bool
	endpoint      oauth2.Endpoint
}

type Option func(*Bridge)

// WithExchange replaces the authorization-code exchange (testing).
func WithExchange(exchange func(ctx context.Context, code string) (*oauth2.Token, error)) Option {
	return func(b *Bridge) {
		b.exchange = exchange
	}
}

// WithProfileResolver replaces ID token verification and claim extraction
// (testing).
func WithProfileResolver(resolve func(ctx context.Context, tok *oauth2.Token) (Profile, error)) Option {
	return func(b *Bridge) {
		b.resolveProfile = resolve
	}
}

// WithEndpoint skips OIDC discovery and uses a fixed endpoint (testing).
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(b *Bridge) {
		b.skipDiscovery = true
		b.endpoint = endpoint
	}
}

// New builds a Bridge for the configured Google client. Discovery hits
// the network once at startup unless an endpoint is injected.
func New(ctx context.Context, clientID, clientSecret, callbackURL string, options ...Option) (*Bridge, error) {
	b := &Bridge{}
	for _, opt := range options {
		opt(b)
	}

	endpoint := b.endpoint
	if !b.skipDiscovery {
		provider, err := oidc.NewProvider(ctx, googleIssuer)
		if err != nil {
			return nil, errors.Wrap(err, "googleauth.New oidc.NewProvider")
		}
		endpoint = provider.Endpoint()
		b.verifier = provider.Verifier(&oidc.Config{ClientID: clientID})
	}

	b.oauthConfig = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		RedirectURL:  callbackURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	if b.exchange == nil {
		b.exchange = func(ctx context.Context, code string) (*oauth2.Token, error) {
			return b.oauthConfig.Exchange(ctx, code)
		}
	}
	if b.resolveProfile == nil {
		b.resolveProfile = b.verifiedProfile
	}

	return b, nil
}

// AuthCodeURL is the redirect-out step: the consent screen URL with the
// validated redirect target carried in state. Offline access plus forced
// consent guarantees a refresh token on first authorization.
func (b *Bridge) AuthCodeURL(state string) string {
	return b.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Complete is the callback step: exchanges the authorization code and
// resolves the provider profile. Fails with ErrMissingEmail when the
// verified identity carries no email claim - without an email no account
// can be created or matched.
func (b *Bridge) Complete(ctx context.Context, code string) (Profile, error) {
	oauth2Token, err := b.exchange(ctx, code)
	if err != nil {
		return Profile{}, errors.Wrap(err, "googleauth.Complete exchange")
	}

	profile, err := b.resolveProfile(ctx, oauth2Token)
	if err != nil {
		return Profile{}, err
	}

	if profile.Email == "" {
		return Profile{}, ErrMissingEmail
	}
	profile.RefreshToken = oauth2Token.RefreshToken
	return profile, nil
}

func (b *Bridge) verifiedProfile(ctx context.Context, oauth2Token *oauth2.Token) (Profile, error) {
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return Profile{}, errors.New("googleauth: no ID token in response")
	}

	idToken, err := b.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Profile{}, errors.Wrap(err, "googleauth: ID token verification failed")
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Profile{}, errors.Wrap(err, "googleauth: failed to extract claims")
	}

	return Profile{
		Subject: claims.Sub,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}
