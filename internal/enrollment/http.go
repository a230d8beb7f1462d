package enrollment

import (
	"log/slog"
	"net/http"

	"course-service/internal/apperr"
	"course-service/internal/httputil"
	"course-service/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/courses/:id/enroll", h.Enroll)
}

func (h *Handler) Enroll(c *gin.Context) {
	courseID, err := httputil.ParamID(c, "id")
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	var req EnrollRequest
	// a missing username resolves to "User not found"
	_ = c.ShouldBind(&req)

	h.logger.InfoContext(c.Request.Context(), "enrolling user", "course_id", courseID, "username", req.Username)
	if _, err := h.service.Enroll(c.Request.Context(), courseID, req.Username); err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	h.metrics.RecordEnrollment(c.Request.Context())

	httputil.RespondWithMessage(c, http.StatusOK, "Enrolled successfully")
}
