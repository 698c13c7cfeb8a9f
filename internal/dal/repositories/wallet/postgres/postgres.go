package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/wallet"
)

// PostgresWalletRepository represents a Postgres wallet repository. Balances
// are derived from the transaction log, so writes are append-only.
type PostgresWalletRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresWalletRepository creates a new wallet repository.
func NewPostgresWalletRepository(conn postgres.GenericConn) *PostgresWalletRepository {
	return &PostgresWalletRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// AddCredit appends a wallet credit entry.
func (r *PostgresWalletRepository) AddCredit(ctx context.Context, tx wallet.Transaction) error {
	query, args, err := r.sb.Insert("wallet_transactions").
		Columns("id", "user_id", "amount_cents", "category", "description", "created_at").
		Values(tx.ID, tx.UserID, tx.AmountCents, string(tx.Category), tx.Description, tx.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert wallet transaction: %w", err)
	}

	return nil
}

// AddLoyaltyPoints appends a loyalty points entry.
func (r *PostgresWalletRepository) AddLoyaltyPoints(ctx context.Context, entry wallet.LoyaltyEntry) error {
	query, args, err := r.sb.Insert("loyalty_points").
		Columns("id", "user_id", "points", "type", "source", "reference_id", "description", "created_at").
		Values(entry.ID, entry.UserID, entry.Points, entry.Type, entry.Source, entry.ReferenceID, entry.Description, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert loyalty entry: %w", err)
	}

	return nil
}
