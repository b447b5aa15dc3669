package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"elearn-order-service/internal/domain"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING" // created locally; awaiting gateway callback
	OrderStatusPaid    OrderStatus = "PAID"    // verified at the gateway; terminal
	OrderStatusFailed  OrderStatus = "FAILED"  // reserved for explicit administrative transitions
)

// AmountTolerance is the permitted discrepancy between the locally stored
// amount and the amount reported by the gateway callback.
const AmountTolerance = 0.01

const gatewayIDPrefix = "ESW"

// Order records a course purchase and its payment state against the gateway.
type Order struct {
	ID              string      // UUID, primary key
	GatewayOrderID  string      // id handed to the gateway; callbacks correlate on this
	Amount          float64     // in NPR; immutable after creation
	Status          OrderStatus
	UserID          string
	CourseID        string
	Address         string
	VerificationRef string // last gateway refId seen for this order; fuel for reconciliation retries
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PaidAt          *time.Time
}

func (o *Order) IsZero() bool { return o == nil || o.ID == "" }

// toleranceSlack absorbs float64 rounding in the subtraction so a difference
// of exactly one paisa is never rejected (100.01-100.00 computes to slightly
// more than 0.01).
const toleranceSlack = 1e-9

// AmountMatches reports whether the gateway-reported amount agrees with the
// stored amount within AmountTolerance.
func (o *Order) AmountMatches(reported float64) bool {
	return math.Abs(reported-o.Amount) <= AmountTolerance+toleranceSlack
}

// NewOrder validates the creation request and constructs a pending order with
// a fresh id and gateway order id.
func NewOrder(courseID, userID, address string, amount float64) (*Order, error) {
	if strings.TrimSpace(courseID) == "" || strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(address) == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Order{
		ID:             uuid.NewString(),
		GatewayOrderID: NewGatewayOrderID(now),
		Amount:         amount,
		Status:         OrderStatusPending,
		UserID:         userID,
		CourseID:       courseID,
		Address:        address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewGatewayOrderID mints the identifier handed to the gateway:
// ESW_<yyyy-mm-dd>_<random8>.
func NewGatewayOrderID(now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", gatewayIDPrefix, now.Format("2006-01-02"), uuid.NewString()[:8])
}
