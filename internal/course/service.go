package course

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"course-service/internal/apperr"
	"course-service/internal/events"
)

var (
	ErrCourseNotFound    = apperr.New(apperr.ErrNotFound, "Course not found")
	ErrCourseNameTooLong = apperr.New(apperr.ErrValidation, "Course name must be at most 100 characters")
)

// FileRemover deletes stored resource files.
type FileRemover interface {
	Remove(path string) error
}

type Service interface {
	CreateCourse(ctx context.Context, name, description string) (*Course, error)
	GetAllCourses(ctx context.Context) ([]Course, error)
	GetCourseByID(ctx context.Context, id int) (*Course, error)
	UpdateCourse(ctx context.Context, id int, in UpdateInput) error
	DeleteCourse(ctx context.Context, id int) error
}

type service struct {
	repo    Repository
	files   FileRemover
	emitter *events.Emitter
	logger  *slog.Logger
}

func NewService(repo Repository, files FileRemover, emitter *events.Emitter, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		files:   files,
		emitter: emitter,
		logger:  logger,
	}
}

func (s *service) CreateCourse(ctx context.Context, name, description string) (*Course, error) {
	created, err := s.repo.Create(ctx, &Course{Name: name, Description: description})
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, events.CourseCreated, created)
	return created, nil
}

func (s *service) GetAllCourses(ctx context.Context) ([]Course, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetCourseByID(ctx context.Context, id int) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateCourse(ctx context.Context, id int, in UpdateInput) error {
	if err := s.repo.Update(ctx, id, in); err != nil {
		return err
	}
	s.emitter.Emit(ctx, events.CourseUpdated, map[string]int{"courseId": id})
	return nil
}

// DeleteCourse removes the course rows first, then the files of its
// resources. File removal failures are logged; the rows are already gone.
func (s *service) DeleteCourse(ctx context.Context, id int) error {
	paths, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := s.files.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "failed to remove resource file", "course_id", id, "path", path, "error", err)
		}
	}

	s.emitter.Emit(ctx, events.CourseDeleted, map[string]int{"courseId": id, "resourcesRemoved": len(paths)})
	return nil
}
