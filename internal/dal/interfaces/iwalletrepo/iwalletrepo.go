package iwalletrepo

import (
	"context"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/wallet"
)

// IWalletRepository appends wallet credits and loyalty entries.
type IWalletRepository interface {
	AddCredit(ctx context.Context, tx wallet.Transaction) error
	AddLoyaltyPoints(ctx context.Context, entry wallet.LoyaltyEntry) error
}
