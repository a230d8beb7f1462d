package course

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"course-service/internal/apperr"
	"course-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, course *Course) (*Course, error)
	GetAll(ctx context.Context) ([]Course, error)
	GetByID(ctx context.Context, id int) (*Course, error)
	Update(ctx context.Context, id int, in UpdateInput) error
	// Delete removes the course with its enrollments and resources and
	// returns the file paths of the removed resources.
	Delete(ctx context.Context, id int) ([]string, error)
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

func (r *repository) Create(ctx context.Context, course *Course) (*Course, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(course).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "courses", time.Since(start), err)

	if err != nil {
		if apperr.IsValueTooLong(err) {
			return nil, ErrCourseNameTooLong
		}
		return nil, err
	}
	return course, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Course, error) {
	start := time.Now()
	courses := make([]Course, 0)
	err := r.db.NewSelect().Model(&courses).Order("id ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	return courses, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Course, error) {
	start := time.Now()
	course := new(Course)
	err := r.db.NewSelect().Model(course).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (r *repository) Update(ctx context.Context, id int, in UpdateInput) error {
	if in.Empty() {
		_, err := r.GetByID(ctx, id)
		return err
	}

	start := time.Now()
	q := r.db.NewUpdate().Model(&Course{}).Where("id = ?", id)
	if in.Name != nil {
		q = q.Set("name = ?", *in.Name)
	}
	if in.Description != nil {
		q = q.Set("description = ?", *in.Description)
	}
	result, err := q.Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "courses", time.Since(start), err)

	if err != nil {
		if apperr.IsValueTooLong(err) {
			return ErrCourseNameTooLong
		}
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int) ([]string, error) {
	start := time.Now()
	var paths []string

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Table("resources").
			Column("file_path").
			Where("course_id = ?", id).
			Scan(ctx, &paths)
		if err != nil {
			return err
		}

		_, err = tx.NewDelete().
			TableExpr("enrollments").
			Where("course_id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}

		// resources go with the course through ON DELETE CASCADE
		result, err := tx.NewDelete().
			Model((*Course)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})

	r.metrics.Database.RecordQuery(ctx, "delete", "courses", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return paths, nil
}
