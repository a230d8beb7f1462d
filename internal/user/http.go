package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"course-service/internal/apperr"
	"course-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil || h.validate.Struct(&req) != nil {
		apperr.Respond(c, h.logger, ErrInvalidUsername)
		return
	}

	isAdmin := false
	if req.IsAdmin != "" {
		parsed, err := strconv.ParseBool(req.IsAdmin)
		if err != nil {
			apperr.Respond(c, h.logger, ErrInvalidAdminFlag)
			return
		}
		isAdmin = parsed
	}

	h.logger.InfoContext(c.Request.Context(), "registering user", "username", req.Username)
	_, err := h.service.Register(c.Request.Context(), RegisterInput{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  isAdmin,
	})
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	h.metrics.RecordUserRegistration(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	// Missing fields fall through to the credential check
	_ = c.ShouldBind(&req)

	u, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.metrics.RecordLoginFailure(c.Request.Context())
		}
		apperr.Respond(c, h.logger, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "user logged in", "username", u.Username)
	c.JSON(http.StatusOK, LoginResponse{Message: "Login successful", IsAdmin: u.IsAdmin})
}
