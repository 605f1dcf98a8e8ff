package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/config"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	signUpPath         = "/v1/accounts:signUp"
	signInPasswordPath = "/v1/accounts:signInWithPassword"
	signInIdPPath      = "/v1/accounts:signInWithIdp"
)

// Client is a REST identity-toolkit client. It holds the signed-in user for
// the lifetime of the process.
type Client struct {
	baseURL    string
	apiKey     string
	requestURI string
	httpClient *http.Client
	observers  *observers
	logger     *slog.Logger
}

func NewClient(cfg *config.Identity, requestURI string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		requestURI: requestURI,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		observers: newObservers(),
		logger:    logger,
	}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type idpRequest struct {
	PostBody          string `json:"postBody"`
	RequestURI        string `json:"requestUri"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
	ProviderID  string `json:"providerId"`
	IDToken     string `json:"idToken"`
	ExpiresIn   string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	return c.signIn(ctx, signUpPath, passwordRequest{Email: email, Password: password, ReturnSecureToken: true}, "password")
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.User, error) {
	return c.signIn(ctx, signInPasswordPath, passwordRequest{Email: email, Password: password, ReturnSecureToken: true}, "password")
}

func (c *Client) SignInWithIdP(ctx context.Context, cred *IdPCredential) (*models.User, error) {
	if cred == nil {
		return nil, ErrConsentCancelled
	}

	post := url.Values{"providerId": {cred.ProviderID}}
	if cred.IDToken != "" {
		post.Set("id_token", cred.IDToken)
	}
	if cred.AccessToken != "" {
		post.Set("access_token", cred.AccessToken)
	}

	body := idpRequest{PostBody: post.Encode(), RequestURI: c.requestURI, ReturnSecureToken: true}

	return c.signIn(ctx, signInIdPPath, body, cred.ProviderID)
}

// SignOut is local: the provider keeps no server-side session for this client.
func (c *Client) SignOut(_ context.Context) error {
	c.observers.set(nil)
	c.logger.Info("Identity signed out")

	return nil
}

func (c *Client) OnAuthStateChanged(fn func(*models.User)) func() {
	return c.observers.subscribe(fn)
}

// CurrentUser is the signed-in user, or nil.
func (c *Client) CurrentUser() *models.User {
	return c.observers.current()
}

func (c *Client) signIn(ctx context.Context, path string, payload any, provider string) (*models.User, error) {
	var account accountResponse
	if err := c.post(ctx, path, payload, &account); err != nil {
		return nil, err
	}

	if account.LocalID == "" {
		return nil, &Error{Code: "MALFORMED_RESPONSE", Message: "account response without localId"}
	}

	if account.ProviderID != "" {
		provider = account.ProviderID
	}

	user := &models.User{
		UID:         account.LocalID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		PhotoURL:    account.PhotoURL,
		Provider:    provider,
	}

	c.observers.set(user)

	return user, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode identity request: %w", err)
	}

	endpoint := c.baseURL + path + "?key=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read identity response: %w", err)
	}

	c.logger.Debug("Identity call", slog.String("path", path), slog.Int("status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse identity response: %w", err)
	}

	return nil
}

// decodeError reads the provider's error envelope. Messages look like
// "WEAK_PASSWORD : Password should be at least 6 characters".
func decodeError(status int, body []byte) error {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return &Error{Code: fmt.Sprintf("HTTP_%d", status), Message: strings.TrimSpace(string(body)), StatusCode: status}
	}

	code, detail, _ := strings.Cut(envelope.Error.Message, " : ")

	return &Error{Code: strings.TrimSpace(code), Message: strings.TrimSpace(detail), StatusCode: status}
}

var _ Provider = (*Client)(nil)
