package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/repository"
)

const digestRunSchema = `
CREATE TABLE IF NOT EXISTS digest_runs (
    id              UUID PRIMARY KEY,
    marketplace     TEXT NOT NULL,
    kind            TEXT NOT NULL,
    period_from     DATE NOT NULL,
    period_to       DATE NOT NULL,
    status          TEXT NOT NULL,
    delivered       BOOLEAN NOT NULL DEFAULT FALSE,
    gross_revenue   NUMERIC(14, 2) NOT NULL DEFAULT 0,
    net_revenue     NUMERIC(14, 2) NOT NULL DEFAULT 0,
    recommendations TEXT[] NOT NULL DEFAULT '{}',
    archives        TEXT[] NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_digest_runs_created_at ON digest_runs (created_at DESC);
`

type digestRunRow struct {
	ID              string         `db:"id"`
	Marketplace     string         `db:"marketplace"`
	Kind            string         `db:"kind"`
	PeriodFrom      time.Time      `db:"period_from"`
	PeriodTo        time.Time      `db:"period_to"`
	Status          string         `db:"status"`
	Delivered       bool           `db:"delivered"`
	GrossRevenue    float64        `db:"gross_revenue"`
	NetRevenue      float64        `db:"net_revenue"`
	Recommendations pq.StringArray `db:"recommendations"`
	Archives        pq.StringArray `db:"archives"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r digestRunRow) toDomain() domain.DigestRun {
	return domain.DigestRun{
		ID:              r.ID,
		Marketplace:     domain.Marketplace(r.Marketplace),
		Kind:            domain.DigestKind(r.Kind),
		PeriodFrom:      r.PeriodFrom,
		PeriodTo:        r.PeriodTo,
		Status:          domain.RunStatus(r.Status),
		Delivered:       r.Delivered,
		GrossRevenue:    r.GrossRevenue,
		NetRevenue:      r.NetRevenue,
		Recommendations: []string(r.Recommendations),
		Archives:        []string(r.Archives),
		CreatedAt:       r.CreatedAt,
	}
}

type digestRunRepository struct {
	db *DB
}

func NewDigestRunRepository(db *DB) repository.DigestRunRepository {
	return &digestRunRepository{db: db}
}

// EnsureSchema creates the journal table when missing.
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.ExecContext(ctx, digestRunSchema); err != nil {
		return fmt.Errorf("create digest_runs: %w", err)
	}
	return nil
}

func (r *digestRunRepository) Save(ctx context.Context, run domain.DigestRun) error {
	query := `
		INSERT INTO digest_runs (
			id, marketplace, kind, period_from, period_to, status, delivered,
			gross_revenue, net_revenue, recommendations, archives, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			delivered = EXCLUDED.delivered,
			archives = EXCLUDED.archives
	`
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			run.ID,
			string(run.Marketplace),
			string(run.Kind),
			run.PeriodFrom,
			run.PeriodTo,
			string(run.Status),
			run.Delivered,
			run.GrossRevenue,
			run.NetRevenue,
			pq.Array(run.Recommendations),
			pq.Array(run.Archives),
			run.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save digest run: %w", err)
		}
		return nil
	})
}

func (r *digestRunRepository) List(ctx context.Context, filter domain.DigestRunFilter) ([]domain.DigestRun, error) {
	query, args := buildListQuery(filter)

	var rows []digestRunRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list digest runs: %w", err)
	}

	runs := make([]domain.DigestRun, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, row.toDomain())
	}
	return runs, nil
}

func buildListQuery(filter domain.DigestRunFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.Marketplace != "" {
		args = append(args, string(filter.Marketplace))
		clauses = append(clauses, fmt.Sprintf("marketplace = $%d", len(args)))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		clauses = append(clauses, fmt.Sprintf("kind = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultListLimit
	}
	args = append(args, limit)

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, marketplace, kind, period_from, period_to, status, delivered,
		       gross_revenue, net_revenue, recommendations, archives, created_at
		FROM digest_runs
		%s
		ORDER BY created_at DESC
		LIMIT $%d`, where, len(args))
	return query, args
}
