package pitch

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

// Repository stores pitches.
type Repository interface {
	Create(ctx context.Context, p *Pitch) (*Pitch, error)
	List(ctx context.Context, skip, limit int) ([]*Pitch, error)
}

// InMemoryRepository keeps pitches in process memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	pitches []*Pitch
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(ctx context.Context, p *Pitch) (*Pitch, error) {
	stored := *p
	stored.ID = uuid.New().String()
	now := time.Now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now

	r.mu.Lock()
	r.pitches = append(r.pitches, &stored)
	r.mu.Unlock()

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) List(ctx context.Context, skip, limit int) ([]*Pitch, error) {
	r.mu.RLock()
	ordered := make([]*Pitch, 0, len(r.pitches))
	for i := len(r.pitches) - 1; i >= 0; i-- {
		ordered = append(ordered, r.pitches[i])
	}
	r.mu.RUnlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	out := []*Pitch{}
	for i := skip; i < len(ordered) && len(out) < limit; i++ {
		p := *ordered[i]
		out = append(out, &p)
	}
	return out, nil
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores pitches in the pitches table.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("pitch: db required")
	}
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *Pitch) (*Pitch, error) {
	stored := *p
	stored.ID = uuid.New().String()
	query := `
		INSERT INTO pitches (id, name, company_name, sector, investment_required, email, contact_number, pitch_summary, proposal_file_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRow(ctx, query,
		stored.ID,
		stored.Name,
		stored.CompanyName,
		stored.Sector,
		stored.InvestmentRequired,
		stored.Email,
		stored.ContactNumber,
		stored.PitchSummary,
		stored.ProposalFileURL,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt); err != nil {
		return nil, fmt.Errorf("pitch: insert failed: %w", err)
	}
	return &stored, nil
}

func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]*Pitch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, company_name, sector, investment_required, email, contact_number,
			pitch_summary, proposal_file_url, created_at, updated_at
		FROM pitches
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("pitch: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Pitch{}
	for rows.Next() {
		var p Pitch
		if err := rows.Scan(
			&p.ID, &p.Name, &p.CompanyName, &p.Sector, &p.InvestmentRequired, &p.Email,
			&p.ContactNumber, &p.PitchSummary, &p.ProposalFileURL, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pitch: scan failed: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pitch: list rows: %w", err)
	}
	return out, nil
}

var (
	_ Repository = (*InMemoryRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
)
