package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrHoldNotActive      = errors.New("hold is not active")
	ErrHoldAlreadyExpired = errors.New("hold has already expired")
)

type HoldStatus string

const (
	HoldStatusActive   HoldStatus = "active"
	HoldStatusReleased HoldStatus = "released"
	HoldStatusPromoted HoldStatus = "promoted"
)

func (s HoldStatus) IsValid() bool {
	switch s {
	case HoldStatusActive, HoldStatusReleased, HoldStatusPromoted:
		return true
	default:
		return false
	}
}

func (s HoldStatus) IsTerminal() bool {
	return s == HoldStatusReleased || s == HoldStatusPromoted
}

// Hold is a short-lived reservation of resource capacity backing a cart
// line. Past expiresAt it counts as absent for capacity purposes even
// before the sweeper flips its status.
type Hold struct {
	id         uuid.UUID
	resourceID uuid.UUID
	userID     uuid.UUID
	timeRange  TimeRange
	quantity   int
	status     HoldStatus
	expiresAt  time.Time
	createdAt  time.Time
}

func NewHold(resourceID, userID uuid.UUID, tr TimeRange, quantity int, now time.Time, ttl time.Duration) (*Hold, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	return &Hold{
		id:         uuid.New(),
		resourceID: resourceID,
		userID:     userID,
		timeRange:  tr,
		quantity:   quantity,
		status:     HoldStatusActive,
		expiresAt:  now.Add(ttl),
		createdAt:  now,
	}, nil
}

func ReconstructHold(
	id, resourceID, userID uuid.UUID,
	tr TimeRange,
	quantity int,
	status HoldStatus,
	expiresAt, createdAt time.Time,
) *Hold {
	return &Hold{
		id:         id,
		resourceID: resourceID,
		userID:     userID,
		timeRange:  tr,
		quantity:   quantity,
		status:     status,
		expiresAt:  expiresAt,
		createdAt:  createdAt,
	}
}

// IsExpired applies lazy expiry: an active hold past its deadline no
// longer reserves capacity regardless of its stored status.
func (h *Hold) IsExpired(now time.Time) bool {
	return now.After(h.expiresAt)
}

// IsActive reports whether the hold still reserves capacity at the given
// instant.
func (h *Hold) IsActive(now time.Time) bool {
	return h.status == HoldStatusActive && !h.IsExpired(now)
}

// Renew extends the expiry by the fixed TTL. Expired and terminal holds
// cannot be renewed.
func (h *Hold) Renew(now time.Time, ttl time.Duration) error {
	if h.status != HoldStatusActive {
		return ErrHoldNotActive
	}
	if h.IsExpired(now) {
		return ErrHoldAlreadyExpired
	}
	h.expiresAt = now.Add(ttl)
	return nil
}

// Release is idempotent: releasing an already released hold is a no-op,
// and a promoted hold stays promoted.
func (h *Hold) Release() {
	if h.status == HoldStatusActive {
		h.status = HoldStatusReleased
	}
}

// Promote transitions the hold to its terminal promoted state. Only an
// active, unexpired hold may be promoted.
func (h *Hold) Promote(now time.Time) error {
	if h.status != HoldStatusActive {
		return ErrHoldNotActive
	}
	if h.IsExpired(now) {
		return ErrHoldAlreadyExpired
	}
	h.status = HoldStatusPromoted
	return nil
}

func (h *Hold) ID() uuid.UUID         { return h.id }
func (h *Hold) ResourceID() uuid.UUID { return h.resourceID }
func (h *Hold) UserID() uuid.UUID     { return h.userID }
func (h *Hold) TimeRange() TimeRange  { return h.timeRange }
func (h *Hold) Quantity() int         { return h.quantity }
func (h *Hold) Status() HoldStatus    { return h.status }
func (h *Hold) ExpiresAt() time.Time  { return h.expiresAt }
func (h *Hold) CreatedAt() time.Time  { return h.createdAt }
