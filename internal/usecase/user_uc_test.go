//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"elearn-order-service/internal/domain"
	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/repository"
	"elearn-order-service/internal/usecase"
)

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should register a user with a hashed password", func(t *testing.T) {
		users := NewMockUserRepo()
		uc := usecase.NewUserUseCase(users, newTestLogger())

		u, err := uc.Register(ctx, "Buyer@Example.com", "Buyer", "9800000000", "s3cret-pass")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if u.Email != "buyer@example.com" {
			t.Fatalf("email = %q, want lowercased", u.Email)
		}
		if u.PasswordHash == "" || u.PasswordHash == "s3cret-pass" {
			t.Fatal("password stored in clear or not at all")
		}
		if _, err := users.FindByEmail(ctx, nil, "buyer@example.com"); err != nil {
			t.Fatalf("registered user not persisted: %v", err)
		}
	})

	t.Run("should reject a duplicate email", func(t *testing.T) {
		users := NewMockUserRepo()
		uc := usecase.NewUserUseCase(users, newTestLogger())

		if _, err := uc.Register(ctx, "buyer@example.com", "Buyer", "", "s3cret-pass"); err != nil {
			t.Fatalf("first register: %v", err)
		}
		_, err := uc.Register(ctx, "buyer@example.com", "Other", "", "another-pass")
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("should surface a losing concurrent registration as a conflict", func(t *testing.T) {
		users := NewMockUserRepo()
		// A concurrent insert won between the existence check and ours; the
		// repository reports the unique-index breach as an existence error.
		users.SaveFunc = func(ctx context.Context, tx repository.Tx, u *model.User) error {
			return domain.ErrAlreadyExists
		}
		uc := usecase.NewUserUseCase(users, newTestLogger())

		_, err := uc.Register(ctx, "buyer@example.com", "Buyer", "", "s3cret-pass")
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("should reject weak or invalid input", func(t *testing.T) {
		users := NewMockUserRepo()
		uc := usecase.NewUserUseCase(users, newTestLogger())

		cases := []struct{ email, name, password string }{
			{"buyer@example.com", "Buyer", "short"},
			{"not-an-email", "Buyer", "s3cret-pass"},
			{"", "Buyer", "s3cret-pass"},
			{"buyer@example.com", "", "s3cret-pass"},
		}
		for _, c := range cases {
			if _, err := uc.Register(ctx, c.email, c.name, "", c.password); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("register(%q,%q): err = %v, want ErrInvalidArgument", c.email, c.name, err)
			}
		}
	})
}

func TestUserUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	users := NewMockUserRepo()
	uc := usecase.NewUserUseCase(users, newTestLogger())

	registered, err := uc.Register(ctx, "buyer@example.com", "Buyer", "", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("should accept the right password", func(t *testing.T) {
		u, err := uc.Authenticate(ctx, "buyer@example.com", "s3cret-pass")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if u.ID != registered.ID {
			t.Fatalf("authenticated id = %q, want %q", u.ID, registered.ID)
		}
	})

	t.Run("should accept mixed-case email", func(t *testing.T) {
		if _, err := uc.Authenticate(ctx, "BUYER@example.com", "s3cret-pass"); err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		if _, err := uc.Authenticate(ctx, "buyer@example.com", "wrong-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("should not reveal whether the account exists", func(t *testing.T) {
		if _, err := uc.Authenticate(ctx, "ghost@example.com", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}
