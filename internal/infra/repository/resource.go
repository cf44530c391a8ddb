package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/resource"
	"resbook/internal/infra"
	"resbook/internal/pkg/pgconv"
	"resbook/internal/pkg/psqlbuilder"
)

type ResourceRepository struct {
	db infra.Querier
}

func NewResourceRepository(db infra.Querier) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	return r.find(ctx, r.db, id, false)
}

// FindByIDForUpdate locks the resource row for the duration of the
// caller's transaction. All capacity check+insert sequences for a
// resource serialize on this lock.
func (r *ResourceRepository) FindByIDForUpdate(ctx context.Context, tx infra.Querier, id uuid.UUID) (*resource.Resource, error) {
	return r.find(ctx, tx, id, true)
}

func (r *ResourceRepository) find(ctx context.Context, q infra.Querier, id uuid.UUID, forUpdate bool) (*resource.Resource, error) {
	builder := psqlbuilder.Select(
		"id",
		"branch_id",
		"name",
		"kind",
		"capacity",
		"hourly_rate_cents",
		"active",
	).
		From("resources").
		Where("id = ?", id)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build resource query", err)
	}

	var (
		resourceID, branchID uuid.UUID
		name                 string
		kind                 string
		capacity             int
		rateCents            int64
		active               bool
	)
	err = q.QueryRow(ctx, query, args...).Scan(&resourceID, &branchID, &name, &kind, &capacity, &rateCents, &active)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource", err)
	}

	schedule, err := r.loadSchedule(ctx, q, resourceID)
	if err != nil {
		return nil, err
	}

	entity, err := resource.NewResource(resourceID, branchID, name, resource.Kind(kind), capacity, rateCents, schedule, active)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid resource row", err)
	}
	return entity, nil
}

func (r *ResourceRepository) loadSchedule(ctx context.Context, q infra.Querier, resourceID uuid.UUID) (resource.WeeklySchedule, error) {
	query, args, err := psqlbuilder.Select("weekday", "open_min", "close_min").
		From("weekly_schedules").
		Where("resource_id = ?", resourceID).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build schedule query", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load weekly schedule", err)
	}
	defer rows.Close()

	schedule := resource.WeeklySchedule{}
	for rows.Next() {
		var weekday, openMin, closeMin int
		if err := rows.Scan(&weekday, &openMin, &closeMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan schedule row", err)
		}
		hours, err := resource.NewDayHours(openMin, closeMin)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid schedule row", err)
		}
		schedule[time.Weekday(weekday)] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate schedule rows", err)
	}

	return schedule, nil
}
