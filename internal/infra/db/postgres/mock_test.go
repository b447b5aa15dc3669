//go:build !integration

package postgres

import (
	"context"
	"time"

	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/repository"
	red "elearn-order-service/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCourseRepo mocks the database repository the course decorator wraps.
type mockInnerCourseRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, c *model.Course) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Course, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.Course, error)
	DeleteFunc   func(ctx context.Context, tx repository.Tx, id string) error
}

var _ repository.CourseRepository = (*mockInnerCourseRepo)(nil)

func (m *mockInnerCourseRepo) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	return m.SaveFunc(ctx, tx, c)
}
func (m *mockInnerCourseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerCourseRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Course, error) {
	return m.ListAllFunc(ctx, tx)
}
func (m *mockInnerCourseRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.DeleteFunc(ctx, tx, id)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc  func(ctx context.Context, key string) (string, error)
	SetFunc  func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc  func(ctx context.Context, keys ...string) error
	PingFunc func(ctx context.Context) error
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", red.Nil
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
func (m *mockRedisClient) Close() error { return nil }
