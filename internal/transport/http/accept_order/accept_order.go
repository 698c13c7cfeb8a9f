package acceptorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/assignment"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/httperrors"
)

type service interface {
	AcceptOrderByDriver(ctx context.Context, orderID, driverID uuid.UUID) (*assignment.Assignment, error)
}

// acceptOrderRequest represents a driver accept request.
type acceptOrderRequest struct {
	DriverID uuid.UUID `json:"driverId" validate:"required"`
}

// Validate validates the accept order request.
func (r *acceptOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// AcceptOrder handles the driver accept request.
func AcceptOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	req := acceptOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for accept order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for accept order", "error", err)

		return
	}

	a, err := service.AcceptOrderByDriver(r.Context(), orderID, req.DriverID)
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error accepting order", "order_id", orderID, "error", err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(a); err != nil {
		slog.Error("Error sending response for accept order", "error", err)
	}
}
