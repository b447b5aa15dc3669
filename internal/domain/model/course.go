package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"elearn-order-service/internal/domain"
)

// Course is a purchasable catalog item. Thumbnail and Video hold object
// storage keys, not URLs.
type Course struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Discount    float64 // percentage, 0..100
	Category    string
	Thumbnail   string
	Video       string
	CreatedAt   time.Time
}

func (c *Course) IsZero() bool { return c == nil || c.ID == "" }

// EffectivePrice applies the discount percentage to the list price.
func (c *Course) EffectivePrice() float64 {
	return c.Price * (100 - c.Discount) / 100
}

func NewCourse(title, description, category string, price, discount float64) (*Course, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if price <= 0 || discount < 0 || discount > 100 {
		return nil, domain.ErrInvalidArgument
	}
	return &Course{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Price:       price,
		Discount:    discount,
		Category:    category,
		CreatedAt:   time.Now(),
	}, nil
}
