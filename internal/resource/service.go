package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"unicode/utf8"

	"course-service/internal/apperr"
	"course-service/internal/course"
	"course-service/internal/events"
	"course-service/internal/storage"
)

const (
	minNameLength = 3
	maxNameLength = 100
)

var (
	ErrResourceNotFound = apperr.New(apperr.ErrNotFound, "Resource not found")
	ErrInvalidResource  = apperr.New(apperr.ErrValidation, "Invalid resource name or file")
	ErrFileTooLarge     = apperr.New(apperr.ErrValidation, "File exceeds upload limit")
)

// CourseLookup resolves the course a resource is attached to.
type CourseLookup interface {
	GetCourseByID(ctx context.Context, id int) (*course.Course, error)
}

type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*storage.StoredFile, error)
	Remove(path string) error
}

type Service interface {
	ListResources(ctx context.Context, courseID int) ([]Resource, error)
	AddResource(ctx context.Context, in AddInput) (*Resource, error)
	DeleteResource(ctx context.Context, id int) error
}

type service struct {
	repo    Repository
	courses CourseLookup
	files   FileStore
	emitter *events.Emitter
	logger  *slog.Logger
}

func NewService(repo Repository, courses CourseLookup, files FileStore, emitter *events.Emitter, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		courses: courses,
		files:   files,
		emitter: emitter,
		logger:  logger,
	}
}

func (s *service) ListResources(ctx context.Context, courseID int) ([]Resource, error) {
	if _, err := s.courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repo.GetByCourse(ctx, courseID)
}

// AddResource stores the file and then the record. When the record cannot
// be written the stored file is removed again.
func (s *service) AddResource(ctx context.Context, in AddInput) (*Resource, error) {
	if _, err := s.courses.GetCourseByID(ctx, in.CourseID); err != nil {
		return nil, err
	}

	n := utf8.RuneCountInString(in.Name)
	if n < minNameLength || n > maxNameLength || in.Content == nil {
		return nil, ErrInvalidResource
	}

	stored, err := s.files.Save(ctx, in.FileName, in.Content)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	created, err := s.repo.Create(ctx, &Resource{
		Name:     in.Name,
		FilePath: stored.Path,
		FileName: truncate(in.FileName, 200),
		CourseID: in.CourseID,
	})
	if err != nil {
		if rmErr := s.files.Remove(stored.Path); rmErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove orphaned file", "path", stored.Path, "error", rmErr)
		}
		return nil, err
	}
	created.Size = stored.Size

	s.emitter.Emit(ctx, events.ResourceUploaded, map[string]interface{}{
		"resourceId": created.ID,
		"courseId":   created.CourseID,
		"name":       created.Name,
		"size":       stored.Size,
	})
	return created, nil
}

// DeleteResource removes the file first, then the record. A file that is
// already gone does not block the record removal.
func (s *service) DeleteResource(ctx context.Context, id int) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.files.Remove(res.FilePath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		s.logger.WarnContext(ctx, "resource file already missing", "resource_id", id, "path", res.FilePath)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.emitter.Emit(ctx, events.ResourceDeleted, map[string]int{"resourceId": id, "courseId": res.CourseID})
	return nil
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
