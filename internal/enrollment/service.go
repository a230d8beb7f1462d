package enrollment

import (
	"context"

	"course-service/internal/events"
	"course-service/internal/user"
)

// UserLookup finds the enrolling user. It must return user.ErrUserNotFound
// for an unknown username.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type Service interface {
	Enroll(ctx context.Context, courseID int, username string) (*Enrollment, error)
}

type service struct {
	repo    Repository
	users   UserLookup
	emitter *events.Emitter
}

func NewService(repo Repository, users UserLookup, emitter *events.Emitter) Service {
	return &service{
		repo:    repo,
		users:   users,
		emitter: emitter,
	}
}

// Enroll stores an enrollment for the named user. The course id is taken
// as given.
func (s *service) Enroll(ctx context.Context, courseID int, username string) (*Enrollment, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Enrollment{UserID: u.ID, CourseID: courseID})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.EnrollmentCreated, map[string]interface{}{
		"enrollmentId": created.ID,
		"courseId":     courseID,
		"username":     u.Username,
	})
	return created, nil
}
