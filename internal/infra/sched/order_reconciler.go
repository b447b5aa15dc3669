package sched

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"elearn-order-service/internal/domain/ports/repository"
	"elearn-order-service/internal/usecase"
)

// OrderReconciler periodically scans for stale pending orders that already
// saw a gateway callback (a verification ref is recorded) and replays the
// verification + guarded transition through the use case. This covers a
// process crash mid-confirm and a gateway outage at callback time. Orders
// with no recorded ref cannot be verified and are left alone.
type OrderReconciler struct {
	uc         usecase.OrderUseCase
	orders     repository.OrderRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending order must be to retry
	log        *zerolog.Logger
}

func NewOrderReconciler(uc usecase.OrderUseCase, orders repository.OrderRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *OrderReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &OrderReconciler{uc: uc, orders: orders, interval: interval, staleAfter: staleAfter, log: logger}
}

func (w *OrderReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *OrderReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.orders.ListPendingOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("order-reconciler: list pending failed")
		return
	}
	for _, o := range pending {
		if o.VerificationRef == "" {
			continue
		}
		amt := strconv.FormatFloat(o.Amount, 'f', 2, 64)
		if _, err := w.uc.HandleSuccessCallback(ctx, o.VerificationRef, o.GatewayOrderID, amt); err != nil {
			w.log.Warn().Err(err).Str("order_id", o.ID).Msg("order-reconciler: retry failed")
			continue
		}
		w.log.Info().Str("order_id", o.ID).Msg("order-reconciler: reconciled")
	}
}
