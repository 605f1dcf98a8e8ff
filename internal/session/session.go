// Package session holds the signed-in customer and the loading state every
// consumer must respect before making an access decision.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/identity"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/validation"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

// State is a snapshot of the customer session. While Loading is true the
// user is unknown, not absent.
type State struct {
	Loading bool         `json:"loading"`
	User    *models.User `json:"user"`
}

func (s State) Authenticated() bool {
	return !s.Loading && s.User != nil
}

type Provider struct {
	idp       identity.Provider
	validate  *validator.Validate
	limiter   *rate.Limiter
	notifier  notify.Notifier
	navigator notify.Navigator
	logger    *slog.Logger

	mu          sync.RWMutex
	state       State
	started     bool
	closed      bool
	unsubscribe func()
	ready       chan struct{}
	readyOnce   sync.Once
}

type Option func(*Provider)

// WithLimiter throttles password sign-in attempts before they reach the
// identity provider.
func WithLimiter(l *rate.Limiter) Option {
	return func(p *Provider) { p.limiter = l }
}

func WithNotifier(n notify.Notifier) Option {
	return func(p *Provider) { p.notifier = n }
}

func WithNavigator(n notify.Navigator) Option {
	return func(p *Provider) { p.navigator = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

func NewProvider(idp identity.Provider, validate *validator.Validate, opts ...Option) *Provider {
	p := &Provider{
		idp:      idp,
		validate: validate,
		logger:   slog.Default(),
		state:    State{Loading: true},
		ready:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start subscribes to the identity provider. It is safe to call more than
// once; only the first call subscribes.
func (p *Provider) Start() {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	unsubscribe := p.idp.OnAuthStateChanged(p.onAuthStateChanged)

	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()
}

// Close tears the subscription down. Auth-state events arriving afterwards
// are dropped.
func (p *Provider) Close() {
	p.mu.Lock()
	p.closed = true
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (p *Provider) onAuthStateChanged(user *models.User) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.state = State{Loading: false, User: user}
	p.mu.Unlock()

	p.readyOnce.Do(func() { close(p.ready) })

	if user != nil {
		p.logger.Info("Auth state changed", slog.String("uid", user.UID))
	} else {
		p.logger.Info("Auth state changed", slog.String("uid", ""))
	}
}

func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}

	return s
}

func (p *Provider) CurrentUser() *models.User {
	return p.State().User
}

func (p *Provider) Loading() bool {
	return p.State().Loading
}

// Ready is closed once the first auth state has been observed.
func (p *Provider) Ready() <-chan struct{} {
	return p.ready
}

// Login signs in with email and password. The email is trimmed and
// lower-cased before it is validated or sent.
func (p *Provider) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := models.LoginRequest{Email: normalizeEmail(email), Password: password}

	if err := validation.Struct(p.validate, req, loginMessages); err != nil {
		metrics.AuthEvents.WithLabelValues("login", "invalid").Inc()
		return nil, err
	}

	if p.limiter != nil && !p.limiter.Allow() {
		metrics.AuthEvents.WithLabelValues("login", string(appErrors.ReasonRateLimited)).Inc()
		p.notify(ctx, notify.Error("Invalid Credentials", ""))
		return nil, appErrors.AuthenticationError(appErrors.ReasonRateLimited, "Too many requests, please try again later")
	}

	user, err := p.idp.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		appErr := loginError(err)
		metrics.AuthEvents.WithLabelValues("login", string(appErr.Reason)).Inc()
		p.logger.Warn("Login failed", slog.String("reason", string(appErr.Reason)), slog.String("code", identity.CodeOf(err)))
		p.notify(ctx, notify.Error("Invalid Credentials", ""))
		return nil, appErr
	}

	metrics.AuthEvents.WithLabelValues("login", "success").Inc()
	p.logger.Info("Customer logged in", slog.String("uid", user.UID))
	p.notify(ctx, notify.Success("Login Successful", ""))
	p.navigate(ctx, notify.PathHome)

	return user, nil
}

func (p *Provider) Register(ctx context.Context, email, password string) (*models.User, error) {
	req := models.RegisterRequest{Email: normalizeEmail(email), Password: password}

	if err := validation.Struct(p.validate, req, registerMessages); err != nil {
		metrics.AuthEvents.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}

	user, err := p.idp.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		appErr := registerError(err)
		metrics.AuthEvents.WithLabelValues("register", string(appErr.Reason)).Inc()
		p.logger.Warn("Registration failed", slog.String("reason", string(appErr.Reason)), slog.String("code", identity.CodeOf(err)))
		p.notify(ctx, notify.Error("Failed to create an account", ""))
		return nil, appErr
	}

	metrics.AuthEvents.WithLabelValues("register", "success").Inc()
	p.logger.Info("Customer registered", slog.String("uid", user.UID))
	p.notify(ctx, notify.Success("Account created successfully", ""))

	return user, nil
}

// SignInWithFederatedProvider waits for the consent flow and exchanges its
// credential with the identity provider.
func (p *Provider) SignInWithFederatedProvider(ctx context.Context, flow identity.ConsentFlow) (*models.User, error) {
	cred, err := flow.Complete(ctx)
	if err == nil {
		var user *models.User
		user, err = p.idp.SignInWithIdP(ctx, cred)
		if err == nil {
			metrics.AuthEvents.WithLabelValues("federated", "success").Inc()
			p.logger.Info("Customer logged in", slog.String("uid", user.UID), slog.String("provider", user.Provider))
			p.notify(ctx, notify.Success("Login Successful", ""))
			p.navigate(ctx, notify.PathHome)

			return user, nil
		}
	}

	appErr := federatedError(err)
	metrics.AuthEvents.WithLabelValues("federated", string(appErr.Reason)).Inc()
	p.logger.Warn("Federated sign-in failed", slog.String("reason", string(appErr.Reason)), slog.Any("error", err))
	p.notify(ctx, notify.Error("Failed to login with Google", ""))

	return nil, appErr
}

// LogOut always succeeds locally. A provider failure is logged and the local
// state is cleared anyway.
func (p *Provider) LogOut(ctx context.Context) {
	if err := p.idp.SignOut(ctx); err != nil {
		p.logger.Error("Identity sign-out failed, clearing local session", slog.Any("error", err))
		p.onAuthStateChanged(nil)
	}

	metrics.AuthEvents.WithLabelValues("logout", "success").Inc()
}

func (p *Provider) notify(ctx context.Context, n models.Notification) {
	if p.notifier != nil {
		p.notifier.Notify(ctx, n)
	}
}

func (p *Provider) navigate(ctx context.Context, path string) {
	if p.navigator != nil {
		p.navigator.Navigate(ctx, path)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var loginMessages = validation.Messages{
	"email.required":     "Email is required",
	"email.email":        "Invalid email address",
	"email.min":          "Email must be at least 5 characters",
	"email.max":          "Email must be at most 50 characters",
	"password.required":  "Password is required",
	"password.min":       "Password must be at least 8 characters",
	"password.max":       "Password must be at most 20 characters",
	"password.hasletter": "Password must contain at least one letter",
	"password.hasdigit":  "Password must contain at least one number",
	"password.nospace":   "Password must not contain spaces",
}

var registerMessages = validation.Messages{
	"email.required":    "Email is required",
	"email.email":       "Enter a valid email and password",
	"password.required": "Password is required",
}

func loginError(err error) *appErrors.AppError {
	var e *appErrors.AppError

	switch identity.CodeOf(err) {
	case identity.CodeEmailNotFound:
		e = appErrors.AuthenticationError(appErrors.ReasonNotFound, "User not found")
	case identity.CodeInvalidPassword, identity.CodeInvalidCredentials:
		e = appErrors.AuthenticationError(appErrors.ReasonWrongCredential, "Wrong password")
	case identity.CodeInvalidEmail:
		e = appErrors.AuthenticationError(appErrors.ReasonMalformedInput, "Invalid email")
	case identity.CodeTooManyAttempts:
		e = appErrors.AuthenticationError(appErrors.ReasonRateLimited, "Too many requests, please try again later")
	case identity.CodeUserDisabled:
		e = appErrors.AuthenticationError(appErrors.ReasonDisallowedOperation, "This account has been disabled")
	default:
		e = appErrors.AuthenticationError(appErrors.ReasonUnknown, "Invalid credentials")
	}

	return e.WithError(err)
}

func registerError(err error) *appErrors.AppError {
	var e *appErrors.AppError

	switch identity.CodeOf(err) {
	case identity.CodeEmailExists:
		e = appErrors.AccountCreationError(appErrors.ReasonAlreadyInUse, "Email is already in use")
	case identity.CodeWeakPassword:
		e = appErrors.AccountCreationError(appErrors.ReasonWeakCredential, "Password is too weak")
	case identity.CodeInvalidEmail, identity.CodeMissingPassword:
		e = appErrors.AccountCreationError(appErrors.ReasonMalformedInput, "Enter a valid email and password")
	case identity.CodeOperationNotAllowed:
		e = appErrors.AccountCreationError(appErrors.ReasonDisallowedOperation, "Registration is not allowed")
	case identity.CodeTooManyAttempts:
		e = appErrors.AccountCreationError(appErrors.ReasonRateLimited, "Too many requests, please try again later")
	default:
		e = appErrors.AccountCreationError(appErrors.ReasonUnknown, "Failed to create an account")
	}

	return e.WithError(err)
}

func federatedError(err error) *appErrors.AppError {
	var e *appErrors.AppError

	switch code := identity.CodeOf(err); {
	case code == identity.CodeConsentCancelled, errors.Is(err, context.Canceled):
		e = appErrors.AuthenticationError(appErrors.ReasonCancelled, "Failed to login")
	case code == identity.CodeOperationNotAllowed, code == identity.CodeUserDisabled:
		e = appErrors.AuthenticationError(appErrors.ReasonDisallowedOperation, "Failed to login")
	case code == identity.CodeTooManyAttempts:
		e = appErrors.AuthenticationError(appErrors.ReasonRateLimited, "Too many requests, please try again later")
	default:
		e = appErrors.AuthenticationError(appErrors.ReasonUnknown, "Failed to login")
	}

	return e.WithError(err)
}
