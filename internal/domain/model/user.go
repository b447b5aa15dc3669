package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"elearn-order-service/internal/domain"
)

// User is a registered buyer. PasswordHash is a bcrypt digest; the clear
// text password never leaves the registration path.
type User struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	About        string
	CreatedAt    time.Time
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

func NewUser(email, name, phone, passwordHash string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(name) == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}
