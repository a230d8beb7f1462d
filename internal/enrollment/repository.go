package enrollment

import (
	"context"
	"time"

	"course-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, enrollment *Enrollment) (*Enrollment, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, enrollment *Enrollment) (*Enrollment, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(enrollment).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "enrollments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return enrollment, nil
}
