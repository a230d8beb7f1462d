// Package logger builds the service's slog loggers. Every record passes
// through a handler that attaches the OTel trace and span ids found in the
// context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"course-service/internal/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// New builds a logger from cfg writing to w.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch resolveFormat(cfg.Format) {
	case FormatJSON:
		opts.AddSource = true
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = newLevelColorHandler(w, opts)
	}
	return slog.New(&traceContextHandler{next: handler})
}

// NewWithServiceContext is New on stdout with service, version and
// environment attached to every record.
func NewWithServiceContext(cfg config.LogConfig, serviceName, version, env string) *slog.Logger {
	return New(cfg, os.Stdout).With(
		slog.String("service", serviceName),
		slog.String("version", version),
		slog.String("environment", env),
	)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveFormat(format string) string {
	switch strings.ToLower(format) {
	case FormatJSON:
		return FormatJSON
	case FormatText:
		return FormatText
	}

	if _, inK8s := os.LookupEnv("KUBERNETES_SERVICE_HOST"); inK8s {
		return FormatJSON
	}
	switch os.Getenv("ENV") {
	case "prod", "dev":
		return FormatJSON
	}
	return FormatText
}

// RequestLogger logs one line per HTTP request. Paths in skip (health
// probes) are not logged unless they fail.
func RequestLogger(logger *slog.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			logger.ErrorContext(c.Request.Context(), "request failed", attrs...)
		case skipped[path]:
		case status >= 400:
			logger.WarnContext(c.Request.Context(), "request rejected", attrs...)
		default:
			logger.InfoContext(c.Request.Context(), "request handled", attrs...)
		}
	}
}

var levelColors = map[slog.Level]string{
	slog.LevelWarn:  "\x1b[33m",
	slog.LevelError: "\x1b[31m",
}

const colorReset = "\x1b[0m"

// levelColorHandler wraps whole warn and error lines in a terminal color.
// The escape codes go straight to w: TextHandler would quote them inside
// the message.
type levelColorHandler struct {
	next slog.Handler
	w    io.Writer
	mu   *sync.Mutex
}

func newLevelColorHandler(w io.Writer, opts *slog.HandlerOptions) *levelColorHandler {
	return &levelColorHandler{next: slog.NewTextHandler(w, opts), w: w, mu: &sync.Mutex{}}
}

func (h *levelColorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *levelColorHandler) Handle(ctx context.Context, r slog.Record) error {
	color, ok := levelColors[r.Level]
	if !ok {
		return h.next.Handle(ctx, r)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := io.WriteString(h.w, color); err != nil {
		return err
	}
	err := h.next.Handle(ctx, r)
	if _, werr := io.WriteString(h.w, colorReset); err == nil {
		err = werr
	}
	return err
}

func (h *levelColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelColorHandler{next: h.next.WithAttrs(attrs), w: h.w, mu: h.mu}
}

func (h *levelColorHandler) WithGroup(name string) slog.Handler {
	return &levelColorHandler{next: h.next.WithGroup(name), w: h.w, mu: h.mu}
}

type traceContextHandler struct {
	next slog.Handler
}

func (h *traceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *traceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.next.Handle(ctx, r)
}

func (h *traceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *traceContextHandler) WithGroup(name string) slog.Handler {
	return &traceContextHandler{next: h.next.WithGroup(name)}
}
