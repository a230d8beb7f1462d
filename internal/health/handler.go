package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"course-service/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db      Pinger
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(db Pinger, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{db: db, logger: logger, metrics: metrics}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready fails while the database cannot be reached.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	h.metrics.Health.RecordCheck(ctx, "postgres", time.Since(start), err)

	if err != nil {
		h.logger.WarnContext(ctx, "readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ready"})
}
