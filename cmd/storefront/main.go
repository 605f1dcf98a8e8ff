package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/admin"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/backend"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/cart"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/checkout"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/config"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/guard"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/health"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/identity"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/session"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/storage"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/validation"
	"golang.org/x/time/rate"
)

const notificationBuffer = 20

func main() {

	// Load config
	cfg := config.MustLoad()

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, &cfg.Telemetry)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Client storage setup
	store, err := newStore(cfg)
	if err != nil {
		slog.Error("❌ Error accessing client storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing client storage", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Client storage closed")
		}
	}()

	feed := notify.NewFeed(notificationBuffer, logger)
	validate := validation.New()

	// Backend collaborators
	backendClient := backend.NewClient(&cfg.Backend, store, logger)

	// Customer session
	idp := identity.NewClient(&cfg.Identity, cfg.GoogleOAuth.RedirectURL, logger)
	google := identity.NewGoogleOAuthProvider(identity.GoogleOAuthConfig{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURL,
	})
	limiter := rate.NewLimiter(rate.Limit(cfg.LoginThrottle.Rate), cfg.LoginThrottle.Burst)
	customer := session.NewProvider(idp, validate,
		session.WithLimiter(limiter),
		session.WithNotifier(feed),
		session.WithNavigator(feed),
		session.WithLogger(logger),
	)
	customer.Start()
	defer customer.Close()

	// Admin session
	adminSession := admin.NewSession(backendClient, store, validate, &cfg.Admin,
		admin.WithNotifier(feed),
		admin.WithNavigator(feed),
		admin.WithLogger(logger),
	)
	if err := adminSession.Restore(ctx); err != nil {
		slog.Warn("⚠️ Could not restore admin session", slog.String("error", err.Error()))
	}
	adminClient := backend.NewAdminClient(backendClient, adminSession)

	// Cart
	cartOpts := []cart.Option{cart.WithNotifier(feed), cart.WithLogger(logger)}
	if cfg.Cart.Persist {
		deviceID, err := storage.DeviceID(ctx, store)
		if err != nil {
			slog.Error("❌ Error reading device id", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cartOpts = append(cartOpts, cart.WithPersister(cart.NewStoragePersister(store, cfg.Cart.KeyPrefix, deviceID)))
	}
	cartStore := cart.NewStore(cartOpts...)
	if err := cartStore.Restore(ctx); err != nil {
		slog.Warn("⚠️ Could not restore cart", slog.String("error", err.Error()))
	}

	pipeline := checkout.NewPipeline(cartStore, customer, backendClient, validate,
		checkout.WithNotifier(feed),
		checkout.WithNavigator(feed),
		checkout.WithLogger(logger),
	)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storefront initialized",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
		slog.String("backend", backendClient.BaseURL()),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("cart_persist", cfg.Cart.Persist),
	)

	// Setup router
	router := api.NewRouter(api.Handlers{
		Cart:          handlers.NewCartHandler(cartStore, backendClient, feed),
		Auth:          handlers.NewAuthHandler(customer, google, store, feed),
		Checkout:      handlers.NewCheckoutHandler(pipeline, feed),
		Orders:        handlers.NewOrderHandler(backendClient, feed),
		Admin:         handlers.NewAdminHandler(adminSession, adminClient, backendClient, validate, feed),
		Notifications: handlers.NewNotificationHandler(feed),
	}, api.Guards{
		Private: guard.NewPrivateRoute(customer),
		Admin:   guard.NewAdminRoute(adminSession),
	}, customer, healthHandler.Handler())

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.Any("error", err))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}

}

func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Driver != "redis" {
		return storage.NewMemoryStore(), nil
	}

	client, err := storage.NewRedisClient(&cfg.Storage.Redis)
	if err != nil {
		return nil, err
	}

	return storage.NewRedisStore(client), nil
}
