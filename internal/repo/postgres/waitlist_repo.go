package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cthayes8/tlco-waitlist/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type WaitlistRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.WaitlistEntry, error)
	Insert(ctx context.Context, req *domain.SignupRequest) (*domain.WaitlistEntry, error)
	List(ctx context.Context, limit, offset int) ([]domain.WaitlistEntry, error)
	Count(ctx context.Context) (int64, error)
}

type waitlistRepository struct {
	pool *pgxpool.Pool
}

func NewWaitlistRepository(pool *pgxpool.Pool) WaitlistRepository {
	return &waitlistRepository{pool: pool}
}

const entryCols = `id, name, email, company, phone, source, created_at`

// FindByEmail matches the stored email verbatim (case-sensitive). A
// miss returns (nil, nil).
func (r *waitlistRepository) FindByEmail(ctx context.Context, email string) (*domain.WaitlistEntry, error) {
	const q = `SELECT ` + entryCols + ` FROM waitlist WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.WaitlistEntry
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&e.ID, &e.Name, &e.Email, &e.Company, &e.Phone, &e.Source, &e.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert writes one entry. The table's unique constraint on email is
// the authoritative duplicate check; a violation surfaces as
// domain.ErrDuplicateEmail so a race past the pre-insert guard cannot
// create a second row.
func (r *waitlistRepository) Insert(ctx context.Context, req *domain.SignupRequest) (*domain.WaitlistEntry, error) {
	const q = `
		INSERT INTO waitlist (name, email, company, phone, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + entryCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.WaitlistEntry
	err := r.pool.QueryRow(ctx, q, req.Name, req.Email, req.Company, req.Phone, req.Source).Scan(
		&e.ID, &e.Name, &e.Email, &e.Company, &e.Phone, &e.Source, &e.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	return &e, nil
}

func (r *waitlistRepository) List(ctx context.Context, limit, offset int) ([]domain.WaitlistEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT ` + entryCols + `
		FROM waitlist
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WaitlistEntry
	for rows.Next() {
		var e domain.WaitlistEntry
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Email, &e.Company, &e.Phone, &e.Source, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *waitlistRepository) Count(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM waitlist`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.pool.QueryRow(ctx, q).Scan(&n)
	return n, err
}
