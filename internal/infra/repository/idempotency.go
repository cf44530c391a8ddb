package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resbook/internal/infra"
	"resbook/internal/pkg/pgconv"
	"resbook/internal/pkg/psqlbuilder"
)

// IdempotencyRecord tracks one checkout attempt keyed by the client's
// Idempotency-Key header. ResultBookingIDs is set once the attempt
// completes so replays return the original outcome.
type IdempotencyRecord struct {
	Key              uuid.UUID
	UserID           uuid.UUID
	Endpoint         string
	RequestHash      string
	Status           string
	ResultBookingIDs []uuid.UUID
	ExpiresAt        time.Time
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRepository struct {
	db infra.Querier
}

func NewIdempotencyRepository(db infra.Querier) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// TryInsert claims the key. It reports whether this call won the claim;
// a concurrent or earlier claim wins via the primary key conflict.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	query, args, err := psqlbuilder.Insert("idempotency_keys").
		Columns("key", "user_id", "endpoint", "request_hash", "status", "expires_at").
		Values(key, userID, endpoint, requestHash, IdempotencyStatusProcessing, expiresAt).
		Suffix("ON CONFLICT (key, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build idempotency insert", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error) {
	query, args, err := psqlbuilder.Select(
		"key",
		"user_id",
		"endpoint",
		"request_hash",
		"status",
		"result_booking_ids",
		"expires_at",
	).
		From("idempotency_keys").
		Where("key = ?", key).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build idempotency query", err)
	}

	var record IdempotencyRecord
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&record.Key,
		&record.UserID,
		&record.Endpoint,
		&record.RequestHash,
		&record.Status,
		&record.ResultBookingIDs,
		&record.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency record", err)
	}
	return &record, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, q infra.Querier, key, userID uuid.UUID, bookingIDs []uuid.UUID) error {
	query, args, err := psqlbuilder.Update("idempotency_keys").
		Set("status", IdempotencyStatusCompleted).
		Set("result_booking_ids", bookingIDs).
		Where("key = ?", key).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build idempotency update", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to complete idempotency record", err)
	}
	return nil
}
