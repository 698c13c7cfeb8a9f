package placeorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/checkoutsvc"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/httperrors"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, model checkoutsvc.PlaceOrderModel) (*order.Order, error)
}

// itemInPlaceOrderRequest represents a cart line in a place order request.
type itemInPlaceOrderRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"  validate:"gt=0"`
}

// placeOrderRequest represents a place order request.
type placeOrderRequest struct {
	CustomerID      uuid.UUID                 `json:"customerId"      validate:"required"`
	DeliveryAddress string                    `json:"deliveryAddress" validate:"required"`
	City            string                    `json:"city"            validate:"required"`
	CouponCode      string                    `json:"couponCode"`
	Items           []itemInPlaceOrderRequest `json:"items"           validate:"required,min=1,dive"`
}

// Validate validates the place order request.
func (r *placeOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *placeOrderRequest) toModel() checkoutsvc.PlaceOrderModel {
	items := make([]checkoutsvc.CartItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = checkoutsvc.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return checkoutsvc.PlaceOrderModel{
		CustomerID:      r.CustomerID,
		Items:           items,
		DeliveryAddress: r.DeliveryAddress,
		City:            r.City,
		CouponCode:      r.CouponCode,
	}
}

// PlaceOrder handles the place order request.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := placeOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for place order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for place order", "error", err)

		return
	}

	placed, err := service.PlaceOrder(r.Context(), req.toModel())
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error placing order", "error", err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(placed); err != nil {
		slog.Error("Error sending response for place order", "error", err)
	}
}
