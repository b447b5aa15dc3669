package adapter

import (
	"context"

	"elearn-order-service/internal/domain/model"
)

// PaymentGateway is the hex port for the external payment provider.
type PaymentGateway interface {
	Name() string

	// PaymentURL builds the browser redirect URL for a pending order.
	// Deterministic given the order and merchant configuration.
	PaymentURL(o *model.Order) (string, error)

	// VerifyTransaction confirms with the gateway's own verification endpoint
	// that the transaction behind refID really happened.
	//
	// ok=false with a nil error is a definitive rejection. A non-nil error
	// means the gateway could not be consulted (network failure, timeout);
	// callers must fail closed and may retry later.
	VerifyTransaction(ctx context.Context, refID, gatewayOrderID, amount string) (ok bool, err error)
}
