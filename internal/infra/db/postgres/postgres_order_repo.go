package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"elearn-order-service/internal/domain"
	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, gateway_order_id, amount, status, user_id, course_id, address, verification_ref, created_at, updated_at, paid_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	if err := row.Scan(&o.ID, &o.GatewayOrderID, &o.Amount, &o.Status, &o.UserID, &o.CourseID, &o.Address, &o.VerificationRef, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (
  id, gateway_order_id, amount, status, user_id, course_id, address, verification_ref, created_at, updated_at, paid_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO UPDATE SET
  amount=$3, status=$4, address=$7, verification_ref=$8, updated_at=$10, paid_at=$11;`

	_, err := execSQL(ctx, r.pool, tx, q, o.ID, o.GatewayOrderID, o.Amount, o.Status, o.UserID, o.CourseID, o.Address, o.VerificationRef, o.CreatedAt, o.UpdatedAt, o.PaidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) FindByGatewayOrderID(ctx context.Context, tx repository.Tx, gatewayOrderID string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_order_id=$1 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

// MarkPaidIfPending atomically transitions the order to PAID only when its
// current status is PENDING. The WHERE guard is what makes duplicate
// concurrent callbacks resolve to exactly one winner.
func (r *orderRepo) MarkPaidIfPending(ctx context.Context, tx repository.Tx, id string, refID string, paidAt time.Time) (bool, error) {
	const q = `
UPDATE orders
   SET status = 'PAID',
       verification_ref = $2,
       paid_at = $3,
       updated_at = NOW()
 WHERE id = $1
   AND status = 'PENDING';`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, refID, paidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *orderRepo) RecordVerificationRef(ctx context.Context, tx repository.Tx, id string, refID string) error {
	const q = `UPDATE orders SET verification_ref=$2, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, refID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE status='PENDING' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o := new(model.Order)
		if err := rows.Scan(&o.ID, &o.GatewayOrderID, &o.Amount, &o.Status, &o.UserID, &o.CourseID, &o.Address, &o.VerificationRef, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, o)
	}
	return out, nil
}
