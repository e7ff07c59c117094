package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Wendyydxiao/personalfinaceapp/internal/middleware"
	"github.com/Wendyydxiao/personalfinaceapp/internal/payment"
)

// CheckoutService defines the payment operation required by the handler.
type CheckoutService interface {
	// CreateCheckoutSession creates a provider session redirecting back to
	// the given URLs.
	CreateCheckoutSession(ctx context.Context, successURL, cancelURL string) (*payment.Session, error)
}

// PaymentHandler handles the token-gated premium checkout endpoint.
type PaymentHandler struct {
	// Checkout performs the outbound provider call.
	Checkout CheckoutService
	// ClientOrigin is the origin the provider redirects back to.
	ClientOrigin string
	// Logger records provider failures.
	Logger *zap.Logger
}

// CreateSession handles POST /api/payments/checkout-session requests.
// Only an authenticated identity may start a checkout; provider failures
// surface as a generic error payload with a 502 status.
func (h *PaymentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	auth := middleware.AuthFromContext(r.Context())
	if auth.State != middleware.Authenticated {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	session, err := h.Checkout.CreateCheckoutSession(r.Context(),
		h.ClientOrigin+"/premium/success",
		h.ClientOrigin+"/premium/cancel",
	)
	if err != nil {
		h.Logger.Error("create checkout session failed",
			zap.String("user_id", auth.Identity.ID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "unable to create checkout session"})
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
