package resource

import (
	"errors"
	"log/slog"
	"net/http"

	"course-service/internal/apperr"
	"course-service/internal/httputil"
	"course-service/internal/metrics"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the room left for form fields and part headers on top
// of the file size limit.
const multipartOverhead = 1 << 20

type Handler struct {
	service        Service
	maxUploadBytes int64
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

func NewHandler(service Service, maxUploadBytes int64, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		metrics:        metrics,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/courses/:id/resources", h.ListResources)
	router.POST("/courses/:id/resources", h.AddResource)
	router.DELETE("/resources/:id", h.DeleteResource)
}

func (h *Handler) ListResources(c *gin.Context) {
	courseID, err := httputil.ParamID(c, "id")
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	resources, err := h.service.ListResources(c.Request.Context(), courseID)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resources)
}

func (h *Handler) AddResource(c *gin.Context) {
	courseID, err := httputil.ParamID(c, "id")
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperr.Respond(c, h.logger, ErrFileTooLarge)
			return
		}
		// not multipart; the missing file part fails validation below
	}

	in := AddInput{
		CourseID: courseID,
		Name:     c.PostForm("name"),
	}
	if header, err := c.FormFile("file"); err == nil {
		f, err := header.Open()
		if err != nil {
			apperr.Respond(c, h.logger, err)
			return
		}
		defer f.Close()
		in.FileName = header.Filename
		in.Content = f
	}

	h.logger.InfoContext(c.Request.Context(), "adding resource", "course_id", courseID, "name", in.Name)
	created, err := h.service.AddResource(c.Request.Context(), in)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	h.metrics.RecordResourceUploaded(c.Request.Context(), created.Size)

	httputil.RespondWithMessage(c, http.StatusCreated, "Resource added successfully", gin.H{"id": created.ID})
}

func (h *Handler) DeleteResource(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "deleting resource", "resource_id", id)
	if err := h.service.DeleteResource(c.Request.Context(), id); err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	httputil.RespondWithMessage(c, http.StatusOK, "Resource deleted successfully")
}
