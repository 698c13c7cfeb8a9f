package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/assignment"
)

var assignmentColumns = []string{
	"id",
	"order_id",
	"driver_id",
	"status",
	"delivery_fee_cents",
	"platform_fee_cents",
	"driver_earning_cents",
	"assigned_at",
	"accepted_at",
	"picked_up_at",
	"delivered_at",
}

// PostgresAssignmentRepository represents a Postgres delivery assignment
// repository.
type PostgresAssignmentRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresAssignmentRepository creates a new assignment repository.
func NewPostgresAssignmentRepository(conn postgres.GenericConn) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a new assignment.
func (r *PostgresAssignmentRepository) Insert(ctx context.Context, a assignment.Assignment) error {
	query, args, err := r.sb.Insert("delivery_assignments").
		Columns(assignmentColumns...).
		Values(
			a.ID, a.OrderID, a.DriverID, a.Status.String(),
			a.DeliveryFeeCents, a.PlatformFeeCents, a.DriverEarningCents,
			a.AssignedAt, a.AcceptedAt, a.PickedUpAt, a.DeliveredAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}

	return nil
}

// GetByOrder retrieves the assignment of an order.
func (r *PostgresAssignmentRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) (*assignment.Assignment, error) {
	query, args, err := r.sb.Select(assignmentColumns...).
		From("delivery_assignments").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("assigned_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var (
		a      assignment.Assignment
		status string
	)
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.OrderID, &a.DriverID, &status,
		&a.DeliveryFeeCents, &a.PlatformFeeCents, &a.DriverEarningCents,
		&a.AssignedAt, &a.AcceptedAt, &a.PickedUpAt, &a.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assignment.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	a.Status = assignment.Status(status)

	return &a, nil
}

// CountActiveByDriver counts the driver's assignments in an active status.
func (r *PostgresAssignmentRepository) CountActiveByDriver(ctx context.Context, driverID uuid.UUID) (int, error) {
	statuses := make([]string, 0, len(assignment.ActiveStatuses))
	for _, s := range assignment.ActiveStatuses {
		statuses = append(statuses, s.String())
	}

	query, args, err := r.sb.Select("COUNT(*)").
		From("delivery_assignments").
		Where(sq.Eq{"driver_id": driverID, "status": statuses}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active assignments: %w", err)
	}

	return count, nil
}

// Update persists the assignment's mutable fields.
func (r *PostgresAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	query, args, err := r.sb.Update("delivery_assignments").
		SetMap(map[string]any{
			"status":       a.Status.String(),
			"picked_up_at": a.PickedUpAt,
			"delivered_at": a.DeliveredAt,
		}).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrNotFound
	}

	return nil
}
