package delivery

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/zone"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/httperrors"
)

type service interface {
	ListZones(ctx context.Context) ([]zone.Zone, error)
	Estimate(ctx context.Context, vendorID uuid.UUID, subtotalCents int64, city string, lat, lng *float64) (*zone.Estimate, error)
}

type estimateRequest struct {
	VendorID      uuid.UUID `schema:"vendorId,required"`
	SubtotalCents int64     `schema:"subtotalCents"`
	City          string    `schema:"city"`
	Lat           *float64  `schema:"lat"`
	Lng           *float64  `schema:"lng"`
}

// Estimate handles the delivery estimate request.
func Estimate(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &estimateRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request for delivery estimate", "error", err)

		return
	}

	estimate, err := service.Estimate(r.Context(), query.VendorID, query.SubtotalCents, query.City, query.Lat, query.Lng)
	if err != nil {
		httperrors.Write(w, err)

		return
	}

	if err := json.NewEncoder(w).Encode(estimate); err != nil {
		slog.Error("Error sending response for delivery estimate", "error", err)
	}
}

// ListZones handles the zone listing request.
func ListZones(w http.ResponseWriter, r *http.Request, service service) {
	zones, err := service.ListZones(r.Context())
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error listing delivery zones", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(zones); err != nil {
		slog.Error("Error sending response for list zones", "error", err)
	}
}
