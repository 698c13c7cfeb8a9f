package httperrors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/assignment"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/catalog"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/coupon"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/handoff"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/zone"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/checkoutsvc"
)

var notFound = []error{
	order.ErrNotFound,
	coupon.ErrNotFound,
	assignment.ErrNotFound,
	zone.ErrNotFound,
	catalog.ErrProductNotFound,
	catalog.ErrVendorNotFound,
}

var unprocessable = []error{
	order.ErrInvalidStatus,
	order.ErrInvalidTransition,
	assignment.ErrNotReady,
	coupon.ErrExpired,
	coupon.ErrUsageExceeded,
	coupon.ErrBelowMinimum,
	handoff.ErrCodeMismatch,
	handoff.ErrCodeExpired,
	handoff.ErrBadQRPayload,
	checkoutsvc.ErrEmptyCart,
	checkoutsvc.ErrMixedVendorCart,
	checkoutsvc.ErrBadQuantity,
	checkoutsvc.ErrOutOfStock,
}

// StatusCode maps a service error onto an HTTP status.
func StatusCode(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	if errors.Is(err, assignment.ErrDriverBusy) {
		return http.StatusConflict
	}
	for _, target := range unprocessable {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}

	return http.StatusInternalServerError
}

// Write maps err to a status code and writes it. Internal errors are logged
// and masked with a generic message.
func Write(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		slog.Error("Internal error handling request", "error", err)
		http.Error(w, "internal server error", code)

		return
	}

	http.Error(w, err.Error(), code)
}
