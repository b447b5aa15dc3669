package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"elearn-order-service/internal/domain"
	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/repository"
)

var _ UserUseCase = (*userUC)(nil)

const minPasswordLen = 8

type UserUseCase interface {
	Register(ctx context.Context, email, name, phone, password string) (*model.User, error)
	// Authenticate returns the user when the email/password pair is valid.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, log: logger}
}

func (u *userUC) Register(ctx context.Context, email, name, phone, password string) (*model.User, error) {
	if len(password) < minPasswordLen {
		return nil, domain.ErrInvalidArgument
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	usr, err := model.NewUser(email, name, phone, string(hash))
	if err != nil {
		return nil, err
	}

	if existing, err := u.users.FindByEmail(ctx, repository.NoTX, usr.Email); err == nil && !existing.IsZero() {
		return nil, domain.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := u.users.Save(ctx, repository.NoTX, usr); err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", usr.ID).Msg("user registered")
	return usr, nil
}

func (u *userUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	usr, err := u.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return usr, nil
}

func (u *userUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.users.FindByID(ctx, repository.NoTX, id)
}
