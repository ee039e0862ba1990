package connect

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines the interface for connect storage.
type Repository interface {
	Create(ctx context.Context, sub Submission) (*Request, error)
	List(ctx context.Context, skip, limit int) ([]*Request, error)
}

// InMemoryRepository keeps submissions in process memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	requests []*Request
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(ctx context.Context, sub Submission) (*Request, error) {
	now := time.Now().UTC()
	req := &Request{
		ID:        uuid.New().String(),
		Name:      sub.Name,
		Email:     sub.Email,
		Purpose:   sub.Purpose,
		Message:   sub.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()

	out := *req
	return &out, nil
}

func (r *InMemoryRepository) List(ctx context.Context, skip, limit int) ([]*Request, error) {
	r.mu.RLock()
	ordered := make([]*Request, 0, len(r.requests))
	for i := len(r.requests) - 1; i >= 0; i-- {
		ordered = append(ordered, r.requests[i])
	}
	r.mu.RUnlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	out := []*Request{}
	for i := skip; i < len(ordered) && len(out) < limit; i++ {
		req := *ordered[i]
		out = append(out, &req)
	}
	return out, nil
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores submissions in the connects table.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("connect: db required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, sub Submission) (*Request, error) {
	id := uuid.New()
	query := `
		INSERT INTO connects (id, name, email, purpose, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	req := &Request{
		ID:      id.String(),
		Name:    sub.Name,
		Email:   sub.Email,
		Purpose: sub.Purpose,
		Message: sub.Message,
	}
	if err := r.db.QueryRow(ctx, query,
		req.ID,
		req.Name,
		req.Email,
		req.Purpose,
		req.Message,
	).Scan(&req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, fmt.Errorf("connect: insert failed: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]*Request, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, purpose, message, created_at, updated_at
		FROM connects
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("connect: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Request{}
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.Name, &req.Email, &req.Purpose, &req.Message, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("connect: scan failed: %w", err)
		}
		out = append(out, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("connect: list rows: %w", err)
	}
	return out, nil
}

var (
	_ Repository = (*InMemoryRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
)
