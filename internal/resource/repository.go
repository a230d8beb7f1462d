package resource

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"course-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, resource *Resource) (*Resource, error)
	GetByCourse(ctx context.Context, courseID int) ([]Resource, error)
	GetByID(ctx context.Context, id int) (*Resource, error)
	Delete(ctx context.Context, id int) error
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

func (r *repository) Create(ctx context.Context, resource *Resource) (*Resource, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(resource).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "resources", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return resource, nil
}

func (r *repository) GetByCourse(ctx context.Context, courseID int) ([]Resource, error) {
	start := time.Now()
	resources := make([]Resource, 0)
	err := r.db.NewSelect().
		Model(&resources).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "resources", time.Since(start), err)

	return resources, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Resource, error) {
	start := time.Now()
	resource := new(Resource)
	err := r.db.NewSelect().Model(resource).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "resources", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return resource, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Resource)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "resources", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}
