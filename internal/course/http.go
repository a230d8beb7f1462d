package course

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

// RegisterRoutes mounts the course endpoints. Mutations are open to any
// caller; there is no admin check.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/courses", h.GetAllCourses)
	router.POST("/courses", h.CreateCourse)
	router.PUT("/courses/:id", h.UpdateCourse)
	router.DELETE("/courses/:id", h.DeleteCourse)
}

func (h *Handler) GetAllCourses(c *gin.Context) {
	courses, err := h.service.GetAllCourses(c.Request.Context())
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req CreateRequest
	// name is not validated; an empty name is stored as-is
	_ = c.ShouldBind(&req)

	h.logger.InfoContext(c.Request.Context(), "creating course", "name", req.Name)
	created, err := h.service.CreateCourse(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	h.metrics.RecordCourseCreated(c.Request.Context())

	httputil.RespondWithMessage(c, http.StatusCreated, "Course added successfully", gin.H{"id": created.ID})
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	var in UpdateInput
	if name, ok := c.GetPostForm("name"); ok {
		in.Name = &name
	}
	if description, ok := c.GetPostForm("description"); ok {
		in.Description = &description
	}

	h.logger.InfoContext(c.Request.Context(), "updating course", "course_id", id)
	if err := h.service.UpdateCourse(c.Request.Context(), id, in); err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	httputil.RespondWithMessage(c, http.StatusOK, "Course updated successfully")
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "deleting course", "course_id", id)
	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	httputil.RespondWithMessage(c, http.StatusOK, "Course deleted successfully")
}
