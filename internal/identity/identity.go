// Package identity talks to the external identity provider: password and
// federated sign-in, sign-out, and the auth-state observer.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
)

// Provider is the identity provider as consumed by the customer session.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.User, error)
	SignInWithIdP(ctx context.Context, cred *IdPCredential) (*models.User, error)
	SignOut(ctx context.Context) error
	// OnAuthStateChanged registers fn and fires it once, asynchronously, with
	// the current user. fn is then called once per sign-in state transition
	// until the returned function is called.
	OnAuthStateChanged(fn func(*models.User)) (unsubscribe func())
}

// Provider-side error codes. They never leave this package boundary without
// being translated by the session.
const (
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeWeakPassword        = "WEAK_PASSWORD"
	CodeEmailNotFound       = "EMAIL_NOT_FOUND"
	CodeInvalidPassword     = "INVALID_PASSWORD"
	CodeInvalidCredentials  = "INVALID_LOGIN_CREDENTIALS"
	CodeInvalidEmail        = "INVALID_EMAIL"
	CodeMissingPassword     = "MISSING_PASSWORD"
	CodeTooManyAttempts     = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeOperationNotAllowed = "OPERATION_NOT_ALLOWED"
	CodeUserDisabled        = "USER_DISABLED"
	CodeConsentCancelled    = "CONSENT_CANCELLED"
)

// Error is a coded failure returned by the provider.
type Error struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message == "" || e.Message == e.Code {
		return fmt.Sprintf("identity provider: %s", e.Code)
	}

	return fmt.Sprintf("identity provider: %s: %s", e.Code, e.Message)
}

// ErrConsentCancelled is returned when the user dismisses the consent screen.
var ErrConsentCancelled = &Error{Code: CodeConsentCancelled, Message: "consent flow closed by the user"}

// CodeOf returns the provider code carried by err, or "" for transport and
// other non-provider failures.
func CodeOf(err error) string {
	var idErr *Error
	if errors.As(err, &idErr) {
		return idErr.Code
	}

	return ""
}

// IdPCredential is what a completed federated consent flow yields.
type IdPCredential struct {
	ProviderID  string
	AccessToken string
	IDToken     string
}

// ConsentFlow is an external consent screen the user completes or cancels.
type ConsentFlow interface {
	Complete(ctx context.Context) (*IdPCredential, error)
}

type listener struct {
	fn        func(*models.User)
	delivered uint64
}

// observers fans auth-state changes out to subscribers. Each state carries a
// version so a listener sees every transition exactly once, in order, even
// when its initial delivery races a change.
type observers struct {
	mu        sync.Mutex
	user      *models.User
	version   uint64
	nextID    int
	listeners map[int]*listener

	dispatchMu sync.Mutex
}

func newObservers() *observers {
	return &observers{version: 1, listeners: make(map[int]*listener)}
}

func (o *observers) current() *models.User {
	o.mu.Lock()
	defer o.mu.Unlock()

	return copyUser(o.user)
}

func (o *observers) set(user *models.User) {
	o.mu.Lock()
	o.user = copyUser(user)
	o.version++
	o.mu.Unlock()

	o.dispatch()
}

func (o *observers) subscribe(fn func(*models.User)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = &listener{fn: fn}
	o.mu.Unlock()

	go o.dispatch()

	var once sync.Once

	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.listeners, id)
			o.mu.Unlock()
		})
	}
}

func (o *observers) dispatch() {
	o.dispatchMu.Lock()
	defer o.dispatchMu.Unlock()

	o.mu.Lock()
	user, version := o.user, o.version
	pending := make([]*listener, 0, len(o.listeners))
	for _, l := range o.listeners {
		if l.delivered < version {
			l.delivered = version
			pending = append(pending, l)
		}
	}
	o.mu.Unlock()

	for _, l := range pending {
		l.fn(copyUser(user))
	}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}

	c := *u

	return &c
}
