// Package http provides HTTP routing and middleware configuration
// for the personal-finance API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Wendyydxiao/personalfinaceapp/internal/middleware"
)

// RouterConfig carries the routing options derived from the process
// configuration.
type RouterConfig struct {
	// AllowedOrigin is the client origin permitted by CORS. Empty disables
	// cross-origin access.
	AllowedOrigin string
	// MountPayment mounts the checkout endpoint when true (a payment
	// secret key is configured).
	MountPayment bool
	// ServeStatic serves built client assets from StaticDir when true
	// (production mode).
	ServeStatic bool
	// StaticDir is the client asset directory.
	StaticDir string
}

// NewRouter constructs and returns the HTTP handler serving the API.
//
// Routes:
//
//	POST /graphql                        → graphqlHandler.Query
//	POST /api/payments/checkout-session  → paymentHandler.CreateSession (when mounted)
//	GET  /healthz                        → liveness probe
//	GET  /*                              → static client assets (production only)
//
// Middleware chain (applied in order):
//  1. RequestID / Recoverer            — chi built-ins
//  2. CORS                             — single allowed client origin
//  3. WithRequestLogging(logger)       — logs each request
//  4. Auth(verifier)                   — resolves the bearer credential into
//     a three-state identity on the request context; enforcement is done by
//     the resolvers and protected handlers, not here
func NewRouter(
	graphqlHandler *GraphQLHandler,
	paymentHandler *PaymentHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	if cfg.AllowedOrigin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.AllowedOrigin},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.Auth(verifier))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		// Only allow requests with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Post("/graphql", graphqlHandler.Query)
	})

	if cfg.MountPayment {
		r.Post("/api/payments/checkout-session", paymentHandler.CreateSession)
	}

	if cfg.ServeStatic {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
