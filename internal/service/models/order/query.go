package order

import "github.com/google/uuid"

// QueryOrdersModel represents filter parameters for querying orders.
type QueryOrdersModel struct {
	Ids         []uuid.UUID `json:"ids,omitempty"`
	CustomerIds []uuid.UUID `json:"customerIds,omitempty"`
	VendorIds   []uuid.UUID `json:"vendorIds,omitempty"`
	Statuses    []Status    `json:"statuses,omitempty"`
	Limit       int         `json:"limit,omitempty"`
	Offset      int         `json:"offset,omitempty"`
}
