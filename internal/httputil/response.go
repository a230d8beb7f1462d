package httputil

import (
	"strconv"

	"course-service/internal/apperr"

	"github.com/gin-gonic/gin"
)

var ErrInvalidID = apperr.New(apperr.ErrValidation, "Invalid ID")

// RespondWithMessage writes {"message": message} plus any extra fields.
func RespondWithMessage(c *gin.Context, code int, message string, extra ...gin.H) {
	body := gin.H{"message": message}
	for _, e := range extra {
		for k, v := range e {
			body[k] = v
		}
	}
	c.JSON(code, body)
}

// ParamID parses a non-negative integer path parameter. Zero is a valid id
// that simply matches no row.
func ParamID(c *gin.Context, key string) (int, error) {
	id, err := strconv.Atoi(c.Param(key))
	if err != nil || id < 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
