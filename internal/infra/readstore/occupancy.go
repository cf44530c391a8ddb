package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/availability"
	"resbook/internal/infra"
)

// OccupancyReadStore materialises the capacity-consuming records for a
// resource and window: pending/confirmed bookings plus active, unexpired
// holds. One UNION query keeps bookings and holds in a single consistent
// snapshot, so availability never sees a torn read between the two
// tables. Expired holds are filtered by timestamp here, independent of
// the sweeper. The querier is passed per call: commands run it inside
// their transaction, queries against the pool.
type OccupancyReadStore struct{}

func NewOccupancyReadStore() *OccupancyReadStore {
	return &OccupancyReadStore{}
}

const occupancyQuery = `
SELECT starts_at, ends_at, quantity
FROM bookings
WHERE resource_id = $1
  AND status IN ('pending_payment', 'confirmed')
  AND starts_at < $3
  AND ends_at > $2
UNION ALL
SELECT starts_at, ends_at, quantity
FROM holds
WHERE resource_id = $1
  AND status = 'active'
  AND expires_at > $4
  AND starts_at < $3
  AND ends_at > $2
`

func (r *OccupancyReadStore) EntriesInRange(ctx context.Context, q infra.Querier, resourceID uuid.UUID, from, to, now time.Time) ([]availability.Entry, error) {
	rows, err := q.Query(ctx, occupancyQuery, resourceID, from, to, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query occupancy", err)
	}
	defer rows.Close()

	var entries []availability.Entry
	for rows.Next() {
		var e availability.Entry
		if err := rows.Scan(&e.Start, &e.End, &e.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupancy row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate occupancy rows", err)
	}
	return entries, nil
}
