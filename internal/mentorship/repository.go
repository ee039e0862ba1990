package mentorship

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists bookings.
type Repository interface {
	// Insert stores b once and returns it with its assigned identity.
	Insert(ctx context.Context, b *Booking) (*Booking, error)
	// List returns bookings newest first.
	List(ctx context.Context, skip, limit int) ([]*Booking, error)
}

// InMemoryRepository keeps bookings in process memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings []*Booking
	now      func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *InMemoryRepository) Insert(ctx context.Context, b *Booking) (*Booking, error) {
	stored := prepareInsert(b, r.now())

	r.mu.Lock()
	r.bookings = append(r.bookings, stored)
	r.mu.Unlock()

	out := *stored
	return &out, nil
}

func (r *InMemoryRepository) List(ctx context.Context, skip, limit int) ([]*Booking, error) {
	r.mu.RLock()
	ordered := make([]*Booking, len(r.bookings))
	copy(ordered, r.bookings)
	r.mu.RUnlock()

	// Insertion order breaks created_at ties so paging is stable.
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	out := []*Booking{}
	for i := skip; i < len(ordered) && len(out) < limit; i++ {
		b := *ordered[i]
		out = append(out, &b)
	}
	return out, nil
}

// prepareInsert copies b and fills identity and timestamps.
func prepareInsert(b *Booking, now time.Time) *Booking {
	stored := *b
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	if stored.Status == "" {
		stored.Status = StatusPending
	}
	return &stored
}

var _ Repository = (*InMemoryRepository)(nil)
