// File: internal/usecase/order_uc.go
package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"elearn-order-service/internal/domain"
	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/adapter"
	"elearn-order-service/internal/domain/ports/repository"
	"elearn-order-service/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// CreateOrderRequest carries the caller-supplied fields for a new order.
type CreateOrderRequest struct {
	CourseID string
	UserID   string
	Amount   float64
	Address  string
}

type OrderUseCase interface {
	// Create validates the request, resolves course and user, and persists a
	// pending order with a fresh gateway order id.
	Create(ctx context.Context, req CreateOrderRequest) (*model.Order, error)
	// PaymentURL builds the gateway redirect URL for an already-created order.
	PaymentURL(o *model.Order) (string, error)
	// HandleSuccessCallback reconciles the gateway's success callback against
	// the stored order: amount check, idempotency, outbound verification,
	// then the guarded PENDING->PAID transition.
	HandleSuccessCallback(ctx context.Context, refID, gatewayOrderID, amount string) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
}

type orderUC struct {
	orders  repository.OrderRepository
	courses repository.CourseRepository
	users   repository.UserRepository
	tm      repository.TransactionManager
	gateway adapter.PaymentGateway
	events  adapter.EventPublisher
	log     *zerolog.Logger
}

func NewOrderUseCase(
	orders repository.OrderRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	gateway adapter.PaymentGateway,
	events adapter.EventPublisher,
	logger *zerolog.Logger,
) *orderUC {
	return &orderUC{
		orders:  orders,
		courses: courses,
		users:   users,
		tm:      tm,
		gateway: gateway,
		events:  events,
		log:     logger,
	}
}

type orderEvent struct {
	OrderID        string    `json:"orderId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	CourseID       string    `json:"courseId"`
	UserID         string    `json:"userId"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func (u *orderUC) Create(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	// The whole request is checked before any lookup: a statically invalid
	// request never costs a database round trip, and invalid input takes
	// precedence over an unknown course or user.
	if err := req.validate(); err != nil {
		return nil, err
	}
	course, err := u.courses.FindByID(ctx, repository.NoTX, req.CourseID)
	if err != nil {
		return nil, err
	}
	if _, err := u.users.FindByID(ctx, repository.NoTX, req.UserID); err != nil {
		return nil, err
	}

	o, err := model.NewOrder(course.ID, req.UserID, req.Address, req.Amount)
	if err != nil {
		return nil, err
	}
	if err := u.orders.Save(ctx, repository.NoTX, o); err != nil {
		return nil, err
	}
	metrics.IncOrder(string(o.Status))
	u.publish(ctx, adapter.EventOrderCreated, o)
	u.log.Info().Str("order_id", o.ID).Str("gateway_order_id", o.GatewayOrderID).Msg("order created")
	return o, nil
}

func (r CreateOrderRequest) validate() error {
	if strings.TrimSpace(r.CourseID) == "" || strings.TrimSpace(r.UserID) == "" {
		return domain.ErrInvalidArgument
	}
	if r.Amount <= 0 || strings.TrimSpace(r.Address) == "" {
		return domain.ErrInvalidArgument
	}
	return nil
}

func (u *orderUC) PaymentURL(o *model.Order) (string, error) {
	if o.IsZero() || o.GatewayOrderID == "" {
		return "", domain.ErrInvalidArgument
	}
	return u.gateway.PaymentURL(o)
}

// HandleSuccessCallback is the single writer of the PAID state. All three
// parameters arrive from the redirected browser and are untrusted.
func (u *orderUC) HandleSuccessCallback(ctx context.Context, refID, gatewayOrderID, amount string) (*model.Order, error) {
	refID = strings.TrimSpace(refID)
	gatewayOrderID = strings.TrimSpace(gatewayOrderID)
	amount = strings.TrimSpace(amount)
	if refID == "" || gatewayOrderID == "" || amount == "" {
		metrics.IncVerify("fail", "missing_params")
		return nil, domain.ErrInvalidArgument
	}

	o, err := u.orders.FindByGatewayOrderID(ctx, repository.NoTX, gatewayOrderID)
	if err != nil {
		metrics.IncVerify("fail", "not_found")
		return nil, err
	}

	reported, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		metrics.IncVerify("fail", "missing_params")
		return nil, domain.ErrInvalidArgument
	}
	if !o.AmountMatches(reported) {
		u.log.Error().
			Str("gateway_order_id", gatewayOrderID).
			Float64("expected", o.Amount).
			Float64("reported", reported).
			Msg("amount mismatch")
		metrics.IncVerify("fail", "amount_mismatch")
		return nil, domain.ErrPaymentMismatch
	}

	// Repeat delivery of an already-processed callback is a success, not an
	// error. The gateway and page reloads both produce duplicates.
	if o.Status == model.OrderStatusPaid {
		u.log.Info().Str("order_id", o.ID).Msg("duplicate callback for paid order")
		metrics.IncVerify("ok", "")
		return o, nil
	}

	// Record the refId before verifying so the reconciler can retry this
	// order if the process dies or the gateway is unreachable. Best effort;
	// status is untouched.
	if err := u.orders.RecordVerificationRef(ctx, repository.NoTX, o.ID, refID); err != nil {
		u.log.Warn().Err(err).Str("order_id", o.ID).Msg("could not record verification ref")
	}

	start := time.Now()
	ok, verifyErr := u.gateway.VerifyTransaction(ctx, refID, gatewayOrderID, amount)
	elapsed := time.Since(start).Seconds()
	if verifyErr != nil {
		metrics.IncVerify("fail", "gateway_unreachable")
		metrics.ObserveVerifyDuration("fail", elapsed)
		u.log.Error().Err(verifyErr).Str("order_id", o.ID).Msg("gateway verification unreachable")
		return nil, domain.ErrGatewayUnavailable
	}
	if !ok {
		metrics.IncVerify("fail", "rejected")
		metrics.ObserveVerifyDuration("fail", elapsed)
		u.log.Error().Str("order_id", o.ID).Str("ref_id", refID).Msg("gateway rejected transaction")
		return nil, domain.ErrVerificationFailed
	}
	metrics.ObserveVerifyDuration("ok", elapsed)

	// Re-read under a row lock, then run the guarded transition. The WHERE
	// status='PENDING' guard is what makes duplicate concurrent callbacks
	// resolve to exactly one winner; the lock keeps the re-read honest.
	now := time.Now()
	var (
		updated bool
		current *model.Order
	)
	txErr := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		cur, err := u.orders.FindByID(ctx, tx, o.ID)
		if err != nil {
			return err
		}
		if cur.Status != model.OrderStatusPending {
			current = cur
			return nil
		}
		updated, err = u.orders.MarkPaidIfPending(ctx, tx, o.ID, refID, now)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	if !updated {
		// Lost the race to a concurrent duplicate. If the winner made the
		// order PAID this is still a success for the caller.
		if current != nil && current.Status == model.OrderStatusPaid {
			metrics.IncVerify("ok", "")
			return current, nil
		}
		return nil, domain.ErrOrderNotPending
	}

	o.Status = model.OrderStatusPaid
	o.VerificationRef = refID
	o.PaidAt = &now
	o.UpdatedAt = now

	metrics.IncVerify("ok", "")
	metrics.IncOrder(string(model.OrderStatusPaid))
	metrics.AddOrderRevenue(o.Amount)
	u.publish(ctx, adapter.EventOrderPaid, o)
	u.log.Info().Str("order_id", o.ID).Str("ref_id", refID).Msg("order paid")
	return o, nil
}

func (u *orderUC) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.orders.FindByID(ctx, repository.NoTX, id)
}

func (u *orderUC) publish(ctx context.Context, key string, o *model.Order) {
	if u.events == nil {
		return
	}
	evt := orderEvent{
		OrderID:        o.ID,
		GatewayOrderID: o.GatewayOrderID,
		CourseID:       o.CourseID,
		UserID:         o.UserID,
		Amount:         o.Amount,
		Status:         string(o.Status),
		OccurredAt:     time.Now(),
	}
	if err := u.events.Publish(ctx, key, evt); err != nil {
		u.log.Warn().Err(err).Str("event", key).Str("order_id", o.ID).Msg("event publish failed")
	}
}
