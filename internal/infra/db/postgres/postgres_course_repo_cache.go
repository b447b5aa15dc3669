package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/repository"
	"elearn-order-service/internal/infra/metrics"
	red "elearn-order-service/internal/infra/redis"
)

var _ repository.CourseRepository = (*courseRepoCacheDecorator)(nil)

// courseRepoCacheDecorator serves catalog reads from Redis and invalidates
// on every write.
type courseRepoCacheDecorator struct {
	inner repository.CourseRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCourseRepoCacheDecorator(inner repository.CourseRepository, cache red.RedisClient, ttl time.Duration) repository.CourseRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &courseRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func courseKey(id string) string { return fmt.Sprintf("course:%s", id) }

const courseListKey = "courses:all"

func (d *courseRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	val, err := d.cache.Get(ctx, courseKey(id))
	if err == nil {
		var c model.Course
		if json.Unmarshal([]byte(val), &c) == nil {
			metrics.IncCacheRequest("course", "hit")
			return &c, nil
		}
	}

	metrics.IncCacheRequest("course", "miss")
	c, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(c); err == nil {
		_ = d.cache.Set(ctx, courseKey(id), bytes, d.ttl)
	}
	return c, nil
}

func (d *courseRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Course, error) {
	val, err := d.cache.Get(ctx, courseListKey)
	if err == nil {
		var cs []*model.Course
		if json.Unmarshal([]byte(val), &cs) == nil {
			metrics.IncCacheRequest("course_list", "hit")
			return cs, nil
		}
	}

	metrics.IncCacheRequest("course_list", "miss")
	cs, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(cs) > 0 {
		if bytes, err := json.Marshal(cs); err == nil {
			_ = d.cache.Set(ctx, courseListKey, bytes, d.ttl)
		}
	}
	return cs, nil
}

func (d *courseRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	_ = d.cache.Del(ctx, courseKey(c.ID), courseListKey)
	return d.inner.Save(ctx, tx, c)
}

func (d *courseRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_ = d.cache.Del(ctx, courseKey(id), courseListKey)
	return d.inner.Delete(ctx, tx, id)
}
