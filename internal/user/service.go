package user

import (
	"context"
	"errors"

	"course-service/internal/apperr"
	"course-service/internal/events"
)

var (
	ErrInvalidUsername    = apperr.New(apperr.ErrValidation, "Invalid username")
	ErrInvalidAdminFlag   = apperr.New(apperr.ErrValidation, "Invalid is_admin value")
	ErrWeakPassword       = apperr.New(apperr.ErrPolicy, "Password must contain at least one uppercase letter, one digit and one special character")
	ErrPasswordTooLong    = apperr.New(apperr.ErrPolicy, "Password must be at most 72 bytes")
	ErrUsernameTaken      = apperr.New(apperr.ErrConflict, "username already exists")
	ErrInvalidCredentials = apperr.New(apperr.ErrAuth, "Invalid credentials")
	ErrUserNotFound       = apperr.New(apperr.ErrNotFound, "User not found")
)

type RegisterInput struct {
	Username string
	Password string
	IsAdmin  bool
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, username, password string) (*User, error)
}

type service struct {
	repo    Repository
	emitter *events.Emitter
	verify  func(hash, password string) bool
}

func NewService(repo Repository, emitter *events.Emitter) Service {
	return &service{
		repo:    repo,
		emitter: emitter,
		verify:  VerifyPassword,
	}
}

// Register stores a new user with a bcrypt digest of the password.
// Duplicate usernames are rejected by the unique index on users.username.
func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := CheckPasswordPolicy(in.Password); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &User{
		Username: in.Username,
		Password: hashed,
		IsAdmin:  in.IsAdmin,
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.UserRegistered, map[string]interface{}{
		"userId":   created.ID,
		"username": created.Username,
		"isAdmin":  created.IsAdmin,
	})
	return created, nil
}

// Login returns the user when password matches its stored digest. Unknown
// users and wrong passwords produce the same error after the same amount
// of hashing.
func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.verify(dummyDigest(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.verify(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
