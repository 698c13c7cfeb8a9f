package isettingsrepo

import (
	"context"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/pricing"
)

// ISettingsRepository reads platform-wide configuration rows.
type ISettingsRepository interface {
	GetShippingSettings(ctx context.Context) (pricing.ShippingSettings, error)
}
