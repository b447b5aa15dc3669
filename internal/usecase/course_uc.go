package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"elearn-order-service/internal/domain"
	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/adapter"
	"elearn-order-service/internal/domain/ports/repository"
)

var _ CourseUseCase = (*courseUC)(nil)

type CourseUseCase interface {
	Create(ctx context.Context, title, description, category string, price, discount float64) (*model.Course, error)
	FindByID(ctx context.Context, id string) (*model.Course, error)
	ListAll(ctx context.Context) ([]*model.Course, error)
	Delete(ctx context.Context, id string) error
	// AttachVideo streams the upload into the blob store and records the
	// object key on the course. AttachThumbnail does the same for images.
	AttachVideo(ctx context.Context, courseID, filename string, r io.Reader, size int64, contentType string) (*model.Course, error)
	AttachThumbnail(ctx context.Context, courseID, filename string, r io.Reader, size int64, contentType string) (*model.Course, error)
}

type courseUC struct {
	courses repository.CourseRepository
	blobs   adapter.BlobStore
	log     *zerolog.Logger
}

func NewCourseUseCase(courses repository.CourseRepository, blobs adapter.BlobStore, logger *zerolog.Logger) *courseUC {
	return &courseUC{courses: courses, blobs: blobs, log: logger}
}

func (u *courseUC) Create(ctx context.Context, title, description, category string, price, discount float64) (*model.Course, error) {
	c, err := model.NewCourse(title, description, category, price, discount)
	if err != nil {
		return nil, err
	}
	if err := u.courses.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	u.log.Info().Str("course_id", c.ID).Str("title", c.Title).Msg("course created")
	return c, nil
}

func (u *courseUC) FindByID(ctx context.Context, id string) (*model.Course, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.courses.FindByID(ctx, repository.NoTX, id)
}

func (u *courseUC) ListAll(ctx context.Context) ([]*model.Course, error) {
	return u.courses.ListAll(ctx, repository.NoTX)
}

func (u *courseUC) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidArgument
	}
	return u.courses.Delete(ctx, repository.NoTX, id)
}

func (u *courseUC) AttachVideo(ctx context.Context, courseID, filename string, r io.Reader, size int64, contentType string) (*model.Course, error) {
	return u.attach(ctx, courseID, "videos", filename, r, size, contentType, func(c *model.Course, key string) {
		c.Video = key
	})
}

func (u *courseUC) AttachThumbnail(ctx context.Context, courseID, filename string, r io.Reader, size int64, contentType string) (*model.Course, error) {
	return u.attach(ctx, courseID, "thumbnails", filename, r, size, contentType, func(c *model.Course, key string) {
		c.Thumbnail = key
	})
}

func (u *courseUC) attach(
	ctx context.Context,
	courseID, prefix, filename string,
	r io.Reader, size int64, contentType string,
	set func(*model.Course, string),
) (*model.Course, error) {
	if strings.TrimSpace(courseID) == "" || strings.TrimSpace(filename) == "" || r == nil {
		return nil, domain.ErrInvalidArgument
	}
	c, err := u.courses.FindByID(ctx, repository.NoTX, courseID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", prefix, c.ID, path.Ext(filename))
	if err := u.blobs.Put(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	set(c, key)
	if err := u.courses.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	u.log.Info().Str("course_id", c.ID).Str("object_key", key).Msg("media attached")
	return c, nil
}
