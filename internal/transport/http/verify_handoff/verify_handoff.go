package verifyhandoff

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/ordersvc"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/httperrors"
)

type service interface {
	VerifyPickupCode(ctx context.Context, orderID, driverID uuid.UUID, code string, method ordersvc.VerifyMethod) (*order.Order, error)
	VerifyDeliveryCode(ctx context.Context, orderID, customerID uuid.UUID, code string, method ordersvc.VerifyMethod) (*order.Order, error)
}

// verifyRequest represents a handoff verification request.
type verifyRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Code   string    `json:"code"   validate:"required"`
	Method string    `json:"method" validate:"omitempty,oneof=qr otp"`
}

// Validate validates the verify request.
func (r *verifyRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *verifyRequest) method() ordersvc.VerifyMethod {
	if r.Method == string(ordersvc.MethodQR) {
		return ordersvc.MethodQR
	}

	return ordersvc.MethodOTP
}

// VerifyPickup handles the driver's pickup code verification.
func VerifyPickup(w http.ResponseWriter, r *http.Request, service service) {
	orderID, req, ok := decode(w, r)
	if !ok {
		return
	}

	o, err := service.VerifyPickupCode(r.Context(), orderID, req.UserID, req.Code, req.method())
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error verifying pickup code", "order_id", orderID, "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(o); err != nil {
		slog.Error("Error sending response for verify pickup", "error", err)
	}
}

// VerifyDelivery handles the customer's delivery code verification.
func VerifyDelivery(w http.ResponseWriter, r *http.Request, service service) {
	orderID, req, ok := decode(w, r)
	if !ok {
		return
	}

	o, err := service.VerifyDeliveryCode(r.Context(), orderID, req.UserID, req.Code, req.method())
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error verifying delivery code", "order_id", orderID, "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(o); err != nil {
		slog.Error("Error sending response for verify delivery", "error", err)
	}
}

func decode(w http.ResponseWriter, r *http.Request) (uuid.UUID, verifyRequest, bool) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return uuid.Nil, verifyRequest{}, false
	}

	req := verifyRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for handoff verification", "error", err)

		return uuid.Nil, verifyRequest{}, false
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for handoff verification", "error", err)

		return uuid.Nil, verifyRequest{}, false
	}

	return orderID, req, true
}
