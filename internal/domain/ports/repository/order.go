package repository

import (
	"context"
	"time"

	"elearn-order-service/internal/domain/model"
)

type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	FindByGatewayOrderID(ctx context.Context, tx Tx, gatewayOrderID string) (*model.Order, error)
	// MarkPaidIfPending atomically transitions PENDING -> PAID and records the
	// gateway refId and paid timestamp. Returns false when the guard matched
	// no row (already paid, or not pending). A plain read-then-write is not an
	// acceptable substitute.
	MarkPaidIfPending(ctx context.Context, tx Tx, id string, refID string, paidAt time.Time) (bool, error)
	// RecordVerificationRef stores the last refId a callback reported for the
	// order without touching its status.
	RecordVerificationRef(ctx context.Context, tx Tx, id string, refID string) error
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Order, error)
}
