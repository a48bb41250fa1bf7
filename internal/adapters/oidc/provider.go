package oidc

// Package oidc provides the OIDC/OAuth2 single sign-on adapter for TRA MATCH.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/ports"
)

var _ ports.AuthProvider = (*Provider)(nil)

// DefaultGroupsClaim is used when ProviderConfig.GroupsClaim is empty.
const DefaultGroupsClaim = "groups"

// Provider implements ports.AuthProvider using OIDC/OAuth2.
type Provider struct {
	config      *oauth2.Config
	httpClient  *http.Client
	groupsClaim string

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	// GroupsClaim is a JMESPath expression selecting group names from the
	// ID token or userinfo claims, e.g. "groups" or "realm_access.roles".
	GroupsClaim string
	HTTPClient  *http.Client
}

// DiscoveryDocument represents the OIDC discovery document.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

func (c ProviderConfig) validate() error {
	switch {
	case c.ClientID == "":
		return errors.New("client ID is required")
	case c.ClientSecret == "":
		return errors.New("client secret is required")
	case c.RedirectURL == "":
		return errors.New("redirect URL is required")
	case c.DiscoveryURL == "":
		return errors.New("discovery URL is required")
	}
	return nil
}

// NewProvider creates a new OIDC provider. It performs discovery once.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	expr := config.GroupsClaim
	if expr == "" {
		expr = DefaultGroupsClaim
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile groups claim %q: %w", expr, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scopes := strings.Fields(config.Scope)
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "profile", "email"}
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       scopes,
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		groupsClaim:  expr,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
	}, nil
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	// redirect_uri must match the configured RedirectURL exactly, so it is not overridden here.
	authURL := p.config.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	claims, err := p.idTokenClaims(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}

	id := p.identityFromClaims(claims)
	if id.Email == "" || id.Subject == "" || len(id.Groups) == 0 {
		ui, uiErr := p.userInfoClaims(ctx, token)
		switch {
		case uiErr == nil:
			fillMissing(&id, p.identityFromClaims(ui))
		case id.Email == "" || id.Subject == "":
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", uiErr)
		}
	}
	if id.Subject == "" || id.Email == "" {
		return domainauth.Identity{}, errors.New("identity provider returned no subject or email")
	}

	id.ExpiresAt = time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		id.ExpiresAt = token.Expiry
	}
	return id, nil
}

func (p *Provider) idTokenClaims(ctx context.Context, tok *oauth2.Token, expectedNonce string) (map[string]any, error) {
	if !slices.Contains(p.config.Scopes, gooidc.ScopeOpenID) {
		return map[string]any{}, nil
	}
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return nil, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != expectedNonce {
		return nil, errors.New("invalid nonce")
	}
	var claims map[string]any
	if err := idTok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse id_token claims: %w", err)
	}
	return claims, nil
}

func (p *Provider) userInfoClaims(ctx context.Context, tok *oauth2.Token) (map[string]any, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	var claims map[string]any
	if err := ui.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return claims, nil
}

// identityFromClaims maps standard claims plus the configured groups expression.
func (p *Provider) identityFromClaims(claims map[string]any) domainauth.Identity {
	return domainauth.Identity{
		Subject:     stringClaim(claims, "sub"),
		Email:       strings.ToLower(stringClaim(claims, "email")),
		DisplayName: firstNonEmpty(stringClaim(claims, "name"), stringClaim(claims, "preferred_username")),
		Groups:      p.groups(claims),
	}
}

func (p *Provider) groups(claims map[string]any) []string {
	if len(claims) == 0 {
		return nil
	}
	v, err := jmespath.Search(p.groupsClaim, claims)
	if err != nil {
		return nil
	}
	switch g := v.(type) {
	case string:
		return strings.Fields(g)
	case []any:
		out := make([]string, 0, len(g))
		for _, item := range g {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func fillMissing(dst *domainauth.Identity, src domainauth.Identity) {
	if dst.Subject == "" {
		dst.Subject = src.Subject
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.DisplayName == "" {
		dst.DisplayName = src.DisplayName
	}
	if len(dst.Groups) == 0 {
		dst.Groups = src.Groups
	}
}

func stringClaim(claims map[string]any, name string) string {
	s, _ := claims[name].(string)
	return strings.TrimSpace(s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString returns a URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, (length*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}

func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
