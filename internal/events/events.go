package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"course-service/internal/config"
	"course-service/internal/metrics"
)

const (
	UserRegistered    = "user.registered"
	CourseCreated     = "course.created"
	CourseUpdated     = "course.updated"
	CourseDeleted     = "course.deleted"
	ResourceUploaded  = "resource.uploaded"
	ResourceDeleted   = "resource.deleted"
	EnrollmentCreated = "enrollment.created"
)

type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New builds the publisher selected by cfg.Driver.
func New(cfg config.EventsConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return Noop{}, nil
	case "nats":
		return NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Emitter publishes domain events on a best-effort basis: a failed publish
// is logged and counted but never returned to the caller.
type Emitter struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewEmitter(publisher Publisher, logger *slog.Logger, m *metrics.Metrics) *Emitter {
	return &Emitter{publisher: publisher, logger: logger, metrics: m}
}

// publishTimeout caps how long a request waits on the event transport.
const publishTimeout = 2 * time.Second

func (e *Emitter) Emit(ctx context.Context, eventType string, payload interface{}) {
	if e == nil || e.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := e.publisher.Publish(ctx, Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	e.metrics.RecordEventPublished(ctx, eventType, err)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}
