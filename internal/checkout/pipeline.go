// Package checkout turns the cart and a shipping form into a submitted
// order.
package checkout

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/validation"
	"github.com/go-playground/validator/v10"
)

// Cart is the slice of the cart store the pipeline needs.
type Cart interface {
	Snapshot() models.CartView
	Clear(ctx context.Context)
	RemoveItem(ctx context.Context, itemID string) bool
}

type SessionSource interface {
	CurrentUser() *models.User
}

// OrderSubmitter creates the order on the backend.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, order *models.ShippingOrder) (*models.Order, error)
}

type Pipeline struct {
	cart      Cart
	session   SessionSource
	orders    OrderSubmitter
	validate  *validator.Validate
	notifier  notify.Notifier
	navigator notify.Navigator
	logger    *slog.Logger

	mu     sync.Mutex
	status models.CheckoutStatus
}

type Option func(*Pipeline)

func WithNotifier(n notify.Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

func WithNavigator(n notify.Navigator) Option {
	return func(p *Pipeline) { p.navigator = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func NewPipeline(cart Cart, session SessionSource, orders OrderSubmitter, validate *validator.Validate, opts ...Option) *Pipeline {
	p := &Pipeline{
		cart:     cart,
		session:  session,
		orders:   orders,
		validate: validate,
		logger:   slog.Default(),
		status:   models.CheckoutIdle,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Pipeline) Status() models.CheckoutStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status
}

// Enter is the checkout page's precondition. An empty cart sends the user
// home and the pipeline never starts.
func (p *Pipeline) Enter(ctx context.Context) (*models.CheckoutView, error) {
	view := p.cart.Snapshot()
	if view.Count == 0 {
		p.navigate(ctx, notify.PathHome)
		return nil, appErrors.CartEmptyError()
	}

	var email string
	if user := p.session.CurrentUser(); user != nil {
		email = user.Email
	}

	return &models.CheckoutView{Email: email, Cart: view, Status: p.reopen()}, nil
}

// Submit validates form and places the order. The cart is only touched after
// the backend acknowledges the order.
func (p *Pipeline) Submit(ctx context.Context, form models.ShippingForm) (*models.Order, error) {
	if !p.begin() {
		metrics.CheckoutSubmissions.WithLabelValues("duplicate").Inc()
		return nil, appErrors.SubmissionInProgressError()
	}

	view := p.cart.Snapshot()
	if view.Count == 0 {
		p.setStatus(models.CheckoutIdle)
		p.notify(ctx, notify.Error("Oops...", "Your cart is empty!"))
		p.navigate(ctx, notify.PathHome)
		return nil, appErrors.CartEmptyError()
	}

	user := p.session.CurrentUser()
	if user == nil || user.Email == "" {
		p.setStatus(models.CheckoutIdle)
		p.navigate(ctx, notify.PathLogin)
		return nil, appErrors.AuthenticationError(appErrors.ReasonNone, "Please log in to place an order")
	}

	if err := validation.Struct(p.validate, form, shippingMessages); err != nil {
		p.setStatus(models.CheckoutIdle)
		metrics.CheckoutSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if !form.AcceptTerms {
		p.setStatus(models.CheckoutIdle)
		metrics.CheckoutSubmissions.WithLabelValues("terms").Inc()
		p.notify(ctx, notify.Warning("Please agree to the terms", "You must agree to the terms and conditions to proceed."))
		return nil, appErrors.TermsNotAcceptedError()
	}

	order := buildOrder(form, user.Email, view)

	p.setStatus(models.CheckoutSubmitting)
	started := time.Now()

	created, err := p.orders.CreateOrder(ctx, order)
	if err != nil {
		p.setStatus(models.CheckoutFailed)
		metrics.ObserveCheckout("failed", started)
		p.logger.Error("Failed to create order", slog.String("email", order.Email), slog.Int("items", len(order.ProductIDs)), slog.Any("error", err))

		text := "Something went wrong"
		if appErr, ok := appErrors.IsAppError(err); ok && appErr.Message != "" {
			text = appErr.Message
		}
		p.notify(ctx, notify.Error("Order Failed", text))

		return nil, appErrors.SubmissionError("Order Failed").WithDetail(notify.PlainText(text)).WithError(err)
	}

	p.reconcileCart(ctx, view)
	p.setStatus(models.CheckoutSucceeded)
	metrics.ObserveCheckout("succeeded", started)

	p.logger.Info("Order placed", slog.String("orderId", created.ID), slog.Int("items", len(order.ProductIDs)), slog.String("total", order.TotalPrice))

	// the session may have changed while the request was in flight
	if current := p.session.CurrentUser(); current == nil || current.UID != user.UID {
		p.logger.Warn("Session changed during order submission", slog.String("orderId", created.ID))
		p.notify(ctx, notify.Success("Order Placed Successfully", "Thank you for shopping with us!"))
		p.navigate(ctx, notify.PathLogin)
		return created, nil
	}

	p.navigate(ctx, notify.PathOrders)
	p.notify(ctx, notify.Success("Order Placed Successfully", "Thank you for shopping with us!"))

	return created, nil
}

// Validate runs the shipping schema without submitting.
func (p *Pipeline) Validate(form models.ShippingForm) error {
	return validation.Struct(p.validate, form, shippingMessages)
}

func buildOrder(form models.ShippingForm, email string, view models.CartView) *models.ShippingOrder {
	ids := make([]string, 0, len(view.Items))
	for _, item := range view.Items {
		ids = append(ids, item.ID)
	}

	return &models.ShippingOrder{
		Name:  form.Name,
		Email: email,
		Address: models.Address{
			Street:  form.Address,
			City:    form.City,
			Country: form.Country,
			State:   form.State,
			ZipCode: form.Zipcode,
		},
		Phone:      validation.DigitsOnly(form.Phone),
		ProductIDs: ids,
		TotalPrice: view.Total,
	}
}

// reconcileCart drops the submitted items. Anything added while the order
// was in flight stays in the cart.
func (p *Pipeline) reconcileCart(ctx context.Context, submitted models.CartView) {
	current := p.cart.Snapshot()

	if slices.EqualFunc(current.Items, submitted.Items, func(a, b models.CartItem) bool { return a.ID == b.ID }) {
		p.cart.Clear(ctx)
		return
	}

	for _, item := range submitted.Items {
		p.cart.RemoveItem(ctx, item.ID)
	}
}

// begin claims the pipeline for one submission.
func (p *Pipeline) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.status.CanSubmit() {
		return false
	}

	p.status = models.CheckoutValidating

	return true
}

// reopen starts a fresh attempt when the previous one has finished. An
// attempt still in flight keeps its status.
func (p *Pipeline) reopen() models.CheckoutStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status.IsTerminal() {
		p.status = models.CheckoutIdle
	}

	return p.status
}

func (p *Pipeline) setStatus(s models.CheckoutStatus) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

func (p *Pipeline) notify(ctx context.Context, n models.Notification) {
	if p.notifier != nil {
		p.notifier.Notify(ctx, n)
	}
}

func (p *Pipeline) navigate(ctx context.Context, path string) {
	if p.navigator != nil {
		p.navigator.Navigate(ctx, path)
	}
}
