package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resbook/internal/infra"
	"resbook/internal/pkg/psqlbuilder"
)

// NotificationRepository writes outbox jobs inside the caller's
// transaction; a separate dispatcher drains the table.
type NotificationRepository struct {
	db infra.Querier
}

func NewNotificationRepository(db infra.Querier) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, q infra.Querier, kind, topic string, payload []byte, runAt time.Time) error {
	query, args, err := psqlbuilder.Insert("notification_jobs").
		Columns("id", "kind", "topic", "payload", "run_at").
		Values(uuid.New(), kind, topic, payload, runAt).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build notification job insert", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
