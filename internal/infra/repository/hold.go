package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"resbook/internal/domain/reservation"
	"resbook/internal/infra"
	"resbook/internal/pkg/psqlbuilder"
)

var holdColumns = []string{
	"id",
	"resource_id",
	"user_id",
	"starts_at",
	"ends_at",
	"quantity",
	"status",
	"expires_at",
	"created_at",
}

type HoldRepository struct {
	db infra.Querier
}

func NewHoldRepository(db infra.Querier) *HoldRepository {
	return &HoldRepository{db: db}
}

func (r *HoldRepository) Create(ctx context.Context, q infra.Querier, h *reservation.Hold) error {
	query, args, err := psqlbuilder.Insert("holds").
		Columns(holdColumns...).
		Values(
			h.ID(),
			h.ResourceID(),
			h.UserID(),
			h.TimeRange().Start(),
			h.TimeRange().End(),
			h.Quantity(),
			string(h.Status()),
			h.ExpiresAt(),
			h.CreatedAt(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build hold insert", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create hold", err)
	}
	return nil
}

func (r *HoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Hold, error) {
	builder := psqlbuilder.Select(holdColumns...).From("holds").Where("id = ?", id)
	return r.queryOne(ctx, r.db, builder)
}

// FindByIDsForUpdate locks the hold rows so commit re-validation and the
// status flip happen under one lock. Rows are locked in id order to keep
// concurrent commits deadlock-free.
func (r *HoldRepository) FindByIDsForUpdate(ctx context.Context, tx infra.Querier, ids []uuid.UUID) ([]*reservation.Hold, error) {
	builder := psqlbuilder.Select(holdColumns...).
		From("holds").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build holds lock query", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock holds", err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

func (r *HoldRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*reservation.Hold, error) {
	builder := psqlbuilder.Select(holdColumns...).
		From("holds").
		Where("user_id = ?", userID).
		Where("status = ?", string(reservation.HoldStatusActive)).
		Where("expires_at > ?", now).
		OrderBy("created_at")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build active holds query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active holds", err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// Save persists mutable hold state (status and expiry) after a domain
// transition.
func (r *HoldRepository) Save(ctx context.Context, q infra.Querier, h *reservation.Hold) error {
	query, args, err := psqlbuilder.Update("holds").
		Set("status", string(h.Status())).
		Set("expires_at", h.ExpiresAt()).
		Where("id = ?", h.ID()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build hold update", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update hold", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("hold not found", nil, infra.KindNotFound)
	}
	return nil
}

// ExtendExpiry pushes a hold's expiry forward only while the hold is
// still live in storage. A renew racing expiry (or a release) matches
// zero rows instead of resurrecting the hold.
func (r *HoldRepository) ExtendExpiry(ctx context.Context, q infra.Querier, id uuid.UUID, expiresAt, now time.Time) (bool, error) {
	query, args, err := psqlbuilder.Update("holds").
		Set("expires_at", expiresAt).
		Where("id = ?", id).
		Where("status = ?", string(reservation.HoldStatusActive)).
		Where("expires_at > ?", now).
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build hold expiry update", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to extend hold expiry", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SweepExpired reclaims storage visibility for lapsed holds. Availability
// math already ignores them, so sweep latency never affects correctness.
func (r *HoldRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psqlbuilder.Update("holds").
		Set("status", string(reservation.HoldStatusReleased)).
		Where("status = ?", string(reservation.HoldStatusActive)).
		Where("expires_at < ?", now).
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build sweep query", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sweep expired holds", err)
	}
	return tag.RowsAffected(), nil
}

func (r *HoldRepository) queryOne(ctx context.Context, q infra.Querier, builder sq.SelectBuilder) (*reservation.Hold, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build hold query", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query hold", err)
	}
	defer rows.Close()

	holds, err := scanHolds(rows)
	if err != nil {
		return nil, err
	}
	if len(holds) == 0 {
		return nil, infra.WrapRepoErr("hold not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return holds[0], nil
}

func scanHolds(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*reservation.Hold, error) {
	var holds []*reservation.Hold
	for rows.Next() {
		var (
			id, resourceID, userID uuid.UUID
			startsAt, endsAt       time.Time
			quantity               int
			status                 string
			expiresAt, createdAt   time.Time
		)
		if err := rows.Scan(&id, &resourceID, &userID, &startsAt, &endsAt, &quantity, &status, &expiresAt, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan hold row", err)
		}

		tr, err := reservation.NewTimeRange(startsAt, endsAt)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid hold time range", err)
		}
		holds = append(holds, reservation.ReconstructHold(
			id, resourceID, userID, tr, quantity,
			reservation.HoldStatus(status), expiresAt, createdAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate hold rows", err)
	}
	return holds, nil
}
