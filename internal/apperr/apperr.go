// Package apperr classifies domain errors into the kinds the HTTP layer
// knows how to report.
package apperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrValidation = errors.New("validation error")
	ErrPolicy     = errors.New("policy error")
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error is a client-facing error of a given kind.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrPolicy):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as {"error": msg}. Internal errors are logged with
// their cause and reported to the client without detail.
func Respond(c *gin.Context, logger *slog.Logger, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "internal error", "error", err, "path", c.FullPath())
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	logger.InfoContext(c.Request.Context(), "request rejected", "status", status, "error", err.Error())
	c.JSON(status, gin.H{"error": err.Error()})
}

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	return hasSQLState(err, "23505")
}

// IsValueTooLong reports whether err is a Postgres string_data_right_truncation.
func IsValueTooLong(err error) bool {
	return hasSQLState(err, "22001")
}

func hasSQLState(err error, code string) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == code
	}
	return false
}
