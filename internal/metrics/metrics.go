package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database *DatabaseMetrics
	Health   *HealthMetrics

	usersRegistered    metric.Int64Counter
	loginsFailed       metric.Int64Counter
	coursesCreated     metric.Int64Counter
	resourcesUploaded  metric.Int64Counter
	uploadBytes        metric.Int64Counter
	enrollmentsCreated metric.Int64Counter
	eventsPublished    metric.Int64Counter
}

func New(meter metric.Meter, logger *slog.Logger) (*Metrics, error) {
	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	m := &Metrics{Database: database, Health: health}

	m.usersRegistered, err = meter.Int64Counter(
		"course_service.users.registered",
		metric.WithDescription("Total number of users registered"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.loginsFailed, err = meter.Int64Counter(
		"course_service.logins.failed",
		metric.WithDescription("Total number of rejected login attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.coursesCreated, err = meter.Int64Counter(
		"course_service.courses.created",
		metric.WithDescription("Total number of courses created"),
		metric.WithUnit("{course}"),
	)
	if err != nil {
		return nil, err
	}

	m.resourcesUploaded, err = meter.Int64Counter(
		"course_service.resources.uploaded",
		metric.WithDescription("Total number of resource files uploaded"),
		metric.WithUnit("{resource}"),
	)
	if err != nil {
		return nil, err
	}

	m.uploadBytes, err = meter.Int64Counter(
		"course_service.resources.upload_bytes",
		metric.WithDescription("Total bytes written to resource storage"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	m.enrollmentsCreated, err = meter.Int64Counter(
		"course_service.enrollments.created",
		metric.WithDescription("Total number of enrollments created"),
		metric.WithUnit("{enrollment}"),
	)
	if err != nil {
		return nil, err
	}

	m.eventsPublished, err = meter.Int64Counter(
		"course_service.events.published",
		metric.WithDescription("Domain events handed to the event transport"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return m, nil
}

func (m *Metrics) RecordUserRegistration(ctx context.Context) {
	if m != nil && m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

func (m *Metrics) RecordLoginFailure(ctx context.Context) {
	if m != nil && m.loginsFailed != nil {
		m.loginsFailed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCourseCreated(ctx context.Context) {
	if m != nil && m.coursesCreated != nil {
		m.coursesCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordResourceUploaded(ctx context.Context, size int64) {
	if m != nil && m.resourcesUploaded != nil {
		m.resourcesUploaded.Add(ctx, 1)
		m.uploadBytes.Add(ctx, size)
	}
}

func (m *Metrics) RecordEnrollment(ctx context.Context) {
	if m != nil && m.enrollmentsCreated != nil {
		m.enrollmentsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEventPublished(ctx context.Context, eventType string, err error) {
	if m == nil || m.eventsPublished == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.eventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
		attribute.String("status", status),
	))
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{Database: &DatabaseMetrics{}, Health: &HealthMetrics{}}
}
