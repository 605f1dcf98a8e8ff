// Package admin manages the administrator bearer token: login, persisted
// expiry, eager removal and forced logout.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/storage"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// Authenticator exchanges admin credentials for a bearer token.
type Authenticator interface {
	AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminLoginResponse, error)
}

// Session is the single writer of the admin credential in client storage.
type Session struct {
	auth      Authenticator
	store     storage.Store
	validate  *validator.Validate
	key       string
	ttl       time.Duration
	now       func() time.Time
	notifier  notify.Notifier
	navigator notify.Navigator
	logger    *slog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
}

type Option func(*Session)

// WithClock replaces time.Now for validity checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

func WithNavigator(n notify.Navigator) Option {
	return func(s *Session) { s.navigator = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func NewSession(auth Authenticator, store storage.Store, validate *validator.Validate, cfg *config.Admin, opts ...Option) *Session {
	s := &Session{
		auth:     auth,
		store:    store,
		validate: validate,
		key:      storage.Key(storage.AdminKeyPrefix, cfg.TokenKey),
		ttl:      cfg.SessionTTL,
		now:      time.Now,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var loginMessages = validation.Messages{
	"username.required": "Username is required",
	"password.required": "Password is required",
}

// Login stores a fresh credential valid for the configured TTL, or until the
// token's own exp claim if that comes first.
func (s *Session) Login(ctx context.Context, username, password string) (*models.AdminCredential, error) {
	req := &models.AdminLoginRequest{Username: username, Password: password}
	if err := validation.Struct(s.validate, req, loginMessages); err != nil {
		return nil, err
	}

	resp, err := s.auth.AdminLogin(ctx, req)
	if err != nil {
		s.logger.Warn("Admin login failed", slog.String("username", username), slog.Any("error", err))
		if !rejected(err) {
			metrics.AuthEvents.WithLabelValues("admin_login", "error").Inc()
			return nil, err
		}
		metrics.AuthEvents.WithLabelValues("admin_login", "invalid").Inc()
		return nil, appErrors.InvalidCredentialsError("Invalid username or password").WithError(err)
	}

	if resp == nil || resp.Token == "" {
		s.logger.Warn("Admin login returned no token", slog.String("username", username))
		metrics.AuthEvents.WithLabelValues("admin_login", "invalid").Inc()
		return nil, appErrors.InvalidCredentialsError("Invalid username or password")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	if exp, ok := tokenExpiry(resp.Token); ok && exp.Before(expiresAt) {
		expiresAt = exp
	}

	if !expiresAt.After(issuedAt) {
		s.logger.Warn("Admin token already expired", slog.String("username", username), slog.Time("expiresAt", expiresAt))
		metrics.AuthEvents.WithLabelValues("admin_login", "expired").Inc()
		return nil, appErrors.InvalidCredentialsError("Admin token has already expired")
	}

	cred := &models.AdminCredential{Token: resp.Token, IssuedAt: issuedAt, ExpiresAt: expiresAt}

	s.mu.Lock()
	if err := s.store.Set(ctx, s.key, cred, expiresAt.Sub(issuedAt)); err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to persist admin credential", slog.Any("error", err))
		return nil, appErrors.InternalError("Failed to start admin session").WithError(err)
	}
	s.scheduleLocked(expiresAt.Sub(issuedAt))
	s.mu.Unlock()

	metrics.AuthEvents.WithLabelValues("admin_login", "success").Inc()
	s.logger.Info("Admin logged in", slog.String("username", username), slog.Time("expiresAt", expiresAt))
	s.notify(ctx, notify.Success("Admin Login Successful", ""))
	s.navigate(ctx, notify.PathDashboard)

	return cred, nil
}

// Restore re-arms the eager removal timer after a restart. An expired
// credential is removed.
func (s *Session) Restore(ctx context.Context) error {
	cred, err := s.Credential(ctx)
	if err != nil {
		return err
	}

	if cred != nil {
		s.schedule(cred.ExpiresAt.Sub(s.now()))
		s.logger.Info("Admin session restored", slog.Time("expiresAt", cred.ExpiresAt))
	}

	return nil
}

// Credential returns the stored credential if it is still valid at the
// current time. Validity is always recomputed here, never trusted from the
// timer.
func (s *Session) Credential(ctx context.Context) (*models.AdminCredential, error) {
	var cred models.AdminCredential

	found, err := s.store.Get(ctx, s.key, &cred)
	if err != nil {
		return nil, appErrors.InternalError("Failed to read admin session").WithError(err)
	}

	if !found {
		return nil, nil
	}

	if !cred.ValidAt(s.now()) {
		s.removeStale(ctx, cred.Token)
		return nil, nil
	}

	return &cred, nil
}

func (s *Session) IsAuthenticated(ctx context.Context) bool {
	cred, err := s.Credential(ctx)
	if err != nil {
		s.logger.Error("Admin session check failed", slog.Any("error", err))
		return false
	}

	return cred != nil
}

// Token returns the bearer token for a guarded request.
func (s *Session) Token(ctx context.Context) (string, error) {
	cred, err := s.Credential(ctx)
	if err != nil {
		return "", err
	}

	if cred == nil {
		return "", appErrors.AuthorizationError("Admin session is not active")
	}

	return cred.Token, nil
}

// Logout removes the credential and cancels the pending removal.
func (s *Session) Logout(ctx context.Context) {
	s.end(ctx, "logout")
	s.logger.Info("Admin logged out")
	s.navigate(ctx, notify.PathHome)
}

// HandleUnauthorized is called when the backend rejects the token. It forces
// a logout and sends the user back to the admin login.
func (s *Session) HandleUnauthorized(ctx context.Context) {
	s.end(ctx, "unauthorized")
	s.logger.Warn("Admin token rejected by backend, session ended")
	s.notify(ctx, notify.Error("Session expired", "Please log in again"))
	s.navigate(ctx, notify.PathAdminLogin)
}

func (s *Session) schedule(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduleLocked(d)
}

func (s *Session) scheduleLocked(d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}

	s.generation++
	gen := s.generation

	s.timer = time.AfterFunc(d, func() { s.expire(gen) })
}

// expire runs on the timer goroutine. A generation mismatch means the token
// it was armed for has since been replaced or removed.
func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.timer = nil

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.Error("Failed to remove expired admin credential", slog.Any("error", err))
		return
	}

	metrics.AdminSessionEnded.WithLabelValues("expired").Inc()
	s.logger.Info("Admin session expired")
}

// removeStale deletes the stored credential only if it still holds token and
// is still expired. A login that replaced it in the meantime is left alone.
func (s *Session) removeStale(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current models.AdminCredential

	found, err := s.store.Get(ctx, s.key, &current)
	if err != nil {
		s.logger.Error("Failed to re-read admin credential", slog.Any("error", err))
		return
	}

	if !found || current.Token != token || current.ValidAt(s.now()) {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++

	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.Error("Failed to remove expired admin credential", slog.Any("error", err))
		return
	}

	metrics.AdminSessionEnded.WithLabelValues("expired").Inc()
}

func (s *Session) end(ctx context.Context, cause string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.Error("Failed to remove admin credential", slog.Any("error", err))
	}

	metrics.AdminSessionEnded.WithLabelValues(cause).Inc()
}

func (s *Session) notify(ctx context.Context, n models.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, n)
	}
}

func (s *Session) navigate(ctx context.Context, path string) {
	if s.navigator != nil {
		s.navigator.Navigate(ctx, path)
	}
}

// tokenExpiry reads the exp claim without verifying the signature. The
// backend stays the authority on the token; this only shortens the client
// window.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

// rejected reports whether the backend turned the credentials down, as
// opposed to being unreachable or failing.
func rejected(err error) bool {
	return appErrors.HasCode(err, appErrors.ErrCodeAuthorization) ||
		appErrors.HasCode(err, appErrors.ErrCodeBadRequest) ||
		appErrors.HasCode(err, appErrors.ErrCodeNotFound)
}

// IsUnauthorized reports whether err is an authorization failure that should
// end the admin session.
func IsUnauthorized(err error) bool {
	var appErr *appErrors.AppError
	return errors.As(err, &appErr) && appErr.Code == appErrors.ErrCodeAuthorization
}
