package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultGoogleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	defaultGoogleTokenURL = "https://oauth2.googleapis.com/token"

	GoogleProviderID = "google.com"
)

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// overridable in tests
	AuthURL  string
	TokenURL string
}

// GoogleOAuthProvider drives the Google consent screen and exchanges the
// returned authorization code for tokens the identity provider accepts.
type GoogleOAuthProvider struct {
	config     GoogleOAuthConfig
	httpClient *http.Client
}

func NewGoogleOAuthProvider(config GoogleOAuthConfig) *GoogleOAuthProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultGoogleAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultGoogleTokenURL
	}

	return &GoogleOAuthProvider{
		config: config,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Enabled reports whether a client ID was configured.
func (p *GoogleOAuthProvider) Enabled() bool {
	return p.config.ClientID != ""
}

func (p *GoogleOAuthProvider) GetLoginURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"scope":         {"openid email profile"},
		"state":         {state},
		"prompt":        {"select_account"},
	}

	return p.config.AuthURL + "?" + params.Encode()
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ExchangeCode trades an authorization code for a provider credential.
func (p *GoogleOAuthProvider) ExchangeCode(ctx context.Context, code string) (*IdPCredential, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp googleTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" && tokenResp.IDToken == "" {
		return nil, errors.New("empty token in response")
	}

	return &IdPCredential{
		ProviderID:  GoogleProviderID,
		AccessToken: tokenResp.AccessToken,
		IDToken:     tokenResp.IDToken,
	}, nil
}

// Callback turns the redirect query of the consent screen into a flow.
// expectedState is the value handed to GetLoginURL.
func (p *GoogleOAuthProvider) Callback(query url.Values, expectedState string) ConsentFlow {
	return &googleCallback{provider: p, query: query, expectedState: expectedState}
}

type googleCallback struct {
	provider      *GoogleOAuthProvider
	query         url.Values
	expectedState string
}

func (c *googleCallback) Complete(ctx context.Context) (*IdPCredential, error) {
	if reason := c.query.Get("error"); reason != "" {
		if reason == "access_denied" {
			return nil, ErrConsentCancelled
		}

		return nil, &Error{Code: "IDP_ERROR", Message: reason}
	}

	if c.expectedState == "" || c.query.Get("state") != c.expectedState {
		return nil, &Error{Code: "INVALID_STATE", Message: "state parameter mismatch"}
	}

	code := c.query.Get("code")
	if code == "" {
		return nil, &Error{Code: "MISSING_CODE", Message: "authorization code missing from callback"}
	}

	return c.provider.ExchangeCode(ctx, code)
}
