package coupons

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/coupon"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/checkoutsvc"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/httperrors"
)

type service interface {
	ValidateCoupon(ctx context.Context, code string, vendorID uuid.UUID, subtotalCents int64) (*checkoutsvc.CouponQuote, error)
	CreateCoupon(ctx context.Context, c coupon.Coupon) (coupon.Coupon, error)
	ListCoupons(ctx context.Context, vendorID uuid.UUID) ([]coupon.Coupon, error)
}

// validateCouponRequest represents a coupon validation request.
type validateCouponRequest struct {
	Code          string    `json:"code"          validate:"required"`
	VendorID      uuid.UUID `json:"vendorId"      validate:"required"`
	SubtotalCents int64     `json:"subtotalCents" validate:"gt=0"`
}

// Validate validates the coupon validation request.
func (r *validateCouponRequest) Validate() error {
	return validator.New().Struct(r)
}

// ValidateCoupon handles the coupon validation request.
func ValidateCoupon(w http.ResponseWriter, r *http.Request, service service) {
	req := validateCouponRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for validate coupon", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for validate coupon", "error", err)

		return
	}

	quote, err := service.ValidateCoupon(r.Context(), req.Code, req.VendorID, req.SubtotalCents)
	if err != nil {
		httperrors.Write(w, err)

		return
	}

	if err := json.NewEncoder(w).Encode(quote); err != nil {
		slog.Error("Error sending response for validate coupon", "error", err)
	}
}

// createCouponRequest represents a vendor coupon creation request.
type createCouponRequest struct {
	VendorID         uuid.UUID `json:"vendorId"         validate:"required"`
	Code             string    `json:"code"             validate:"required"`
	DiscountType     string    `json:"discountType"     validate:"required,oneof=percentage fixed"`
	DiscountValue    int64     `json:"discountValue"    validate:"gt=0"`
	MaxDiscountCents *int64    `json:"maxDiscountCents"`
	MinPurchaseCents int64     `json:"minPurchaseCents" validate:"gte=0"`
	UsageLimit       int       `json:"usageLimit"       validate:"gt=0"`
	StartDate        time.Time `json:"startDate"        validate:"required"`
	EndDate          time.Time `json:"endDate"          validate:"required"`
	IsActive         bool      `json:"isActive"`
}

// Validate validates the create coupon request.
func (r *createCouponRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	if r.DiscountType == string(coupon.DiscountPercentage) {
		return validator.New().Var(r.DiscountValue, "lte=100")
	}

	return nil
}

func (r *createCouponRequest) toModel() coupon.Coupon {
	return coupon.Coupon{
		VendorID:         r.VendorID,
		Code:             r.Code,
		DiscountType:     coupon.DiscountType(r.DiscountType),
		DiscountValue:    r.DiscountValue,
		MaxDiscountCents: r.MaxDiscountCents,
		MinPurchaseCents: r.MinPurchaseCents,
		UsageLimit:       r.UsageLimit,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IsActive:         r.IsActive,
	}
}

// CreateCoupon handles the vendor coupon creation request.
func CreateCoupon(w http.ResponseWriter, r *http.Request, service service) {
	req := createCouponRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create coupon", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create coupon", "error", err)

		return
	}

	created, err := service.CreateCoupon(r.Context(), req.toModel())
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error creating coupon", "error", err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create coupon", "error", err)
	}
}

// couponInListResponse represents a coupon with its derived status.
type couponInListResponse struct {
	coupon.Coupon
	Status coupon.DerivedStatus `json:"status"`
}

// ListCoupons handles the vendor coupon listing request.
func ListCoupons(w http.ResponseWriter, r *http.Request, service service) {
	vendorID, err := uuid.Parse(r.URL.Query().Get("vendorId"))
	if err != nil {
		http.Error(w, "invalid vendor id", http.StatusBadRequest)

		return
	}

	coupons, err := service.ListCoupons(r.Context(), vendorID)
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error listing coupons", "vendor_id", vendorID, "error", err)

		return
	}

	now := time.Now()
	resp := make([]couponInListResponse, 0, len(coupons))
	for _, c := range coupons {
		resp = append(resp, couponInListResponse{Coupon: c, Status: c.StatusAt(now)})
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response for list coupons", "error", err)
	}
}
