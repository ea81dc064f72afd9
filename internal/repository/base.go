// Package repository provides data access layer implementations for the feed service.
package repository

import (
	"context"
	"errors"
	"time"

	"konishi/internal/models"
	"konishi/internal/observability"

	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

// ActivityEvent is one dated touch on a post: the post itself being created
// or a comment being made on it.
type ActivityEvent struct {
	PostID     uint
	OccurredAt time.Time
}

// queryObserver wraps every store call with a span, a latency sample and
// error classification.
type queryObserver struct {
	table   string
	metrics *observability.DatabaseMetrics
	log     *observability.RepoLogger
}

func newQueryObserver(table string) queryObserver {
	return queryObserver{
		table:   table,
		metrics: observability.NewDatabaseMetrics(table),
		log:     observability.NewRepoLogger(table),
	}
}

// start opens the span and returns the finish func, which must receive the
// raw store error and returns the classified one.
func (o queryObserver) start(ctx context.Context, operation string) (context.Context, func(error) error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, operation, o.table)
	done := o.metrics.TrackQuery(operation)

	return ctx, func(err error) error {
		done()
		defer span.End()
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.LogError(ctx, err, operation)
		return models.ClassifyStoreError(err)
	}
}

// findIn loads every row of T whose column is in ids, ordered by order.
func findIn[T any](ctx context.Context, db *gorm.DB, column string, ids []uint, order string) ([]T, error) {
	var rows []T
	if len(ids) == 0 {
		return rows, nil
	}
	err := db.WithContext(ctx).
		Where(column+" IN ?", ids).
		Order(order).
		Find(&rows).Error
	return rows, err
}

// findPreviewIn loads at most perParent rows of T for each parent id in ids,
// lowest ids first. The window keeps the cap in the store.
func findPreviewIn[T any](ctx context.Context, db *gorm.DB, table, parentColumn string, ids []uint, perParent int) ([]T, error) {
	var rows []T
	if len(ids) == 0 || perParent <= 0 {
		return rows, nil
	}
	ranked := db.Table(table).
		Select("*, ROW_NUMBER() OVER (PARTITION BY "+parentColumn+" ORDER BY id ASC) AS preview_rank").
		Where(parentColumn+" IN ?", ids)
	err := db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Where("preview_rank <= ?", perParent).
		Order(parentColumn + " ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

type parentCount struct {
	ParentID uint
	Total    int
}

// countIn returns the number of rows in table per parent id. Parents with no
// rows are absent from the map.
func countIn(ctx context.Context, db *gorm.DB, table, parentColumn string, ids []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []parentCount
	err := db.WithContext(ctx).
		Table(table).
		Select(parentColumn+" AS parent_id, COUNT(*) AS total").
		Where(parentColumn+" IN ?", ids).
		Group(parentColumn).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ParentID] = row.Total
	}
	return counts, nil
}
