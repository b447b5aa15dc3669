//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/repository"
)

func TestCourseRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	course := &model.Course{ID: "course-123", Title: "Go for Backend Engineers", Price: 1000}
	courseJSON, _ := json.Marshal(course)

	t.Run("FindByID should return from cache on hit", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(courseJSON), nil
			},
		}
		innerCalled := false
		inner := &mockInnerCourseRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
				innerCalled = true
				return nil, nil
			},
		}
		decorator := NewCourseRepoCacheDecorator(inner, mockRedis, time.Hour)

		got, err := decorator.FindByID(ctx, nil, "course-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if got == nil || got.ID != "course-123" {
			t.Error("did not return the correct course from cache")
		}
	})

	t.Run("FindByID should fall through and populate on miss", func(t *testing.T) {
		var setKey string
		mockRedis := &mockRedisClient{
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey = key
				return nil
			},
		}
		inner := &mockInnerCourseRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
				return course, nil
			},
		}
		decorator := NewCourseRepoCacheDecorator(inner, mockRedis, time.Hour)

		got, err := decorator.FindByID(ctx, nil, "course-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ID != "course-123" {
			t.Error("did not return the course from the inner repository")
		}
		if setKey != "course:course-123" {
			t.Errorf("cache populated under %q, want course:course-123", setKey)
		}
	})

	t.Run("Save should invalidate both keys", func(t *testing.T) {
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		inner := &mockInnerCourseRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, c *model.Course) error {
				return nil
			},
		}
		decorator := NewCourseRepoCacheDecorator(inner, mockRedis, time.Hour)

		if err := decorator.Save(ctx, nil, course); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != 2 {
			t.Fatalf("expected 2 keys to be deleted, but got %d", len(deletedKeys))
		}
	})

	t.Run("ListAll should not cache an empty catalog", func(t *testing.T) {
		setCalled := false
		mockRedis := &mockRedisClient{
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setCalled = true
				return nil
			},
		}
		inner := &mockInnerCourseRepo{
			ListAllFunc: func(ctx context.Context, tx repository.Tx) ([]*model.Course, error) {
				return nil, nil
			},
		}
		decorator := NewCourseRepoCacheDecorator(inner, mockRedis, time.Hour)

		if _, err := decorator.ListAll(ctx, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if setCalled {
			t.Error("empty catalog should not be written to the cache")
		}
	})
}
