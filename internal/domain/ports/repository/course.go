package repository

import (
	"context"

	"elearn-order-service/internal/domain/model"
)

type CourseRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Course) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Course, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Course, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
