package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/rota/internal/roster"
	"github.com/me/rota/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Each new connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Roster ---

// ReplaceRoster swaps the stored roster for r in one transaction. List order
// is kept in the position column.
func (s *SQLiteStore) ReplaceRoster(ctx context.Context, r *roster.Roster) error {
	s.logger.Debug("sql", "op", "replace", "table", "workers,jobs", "workers", len(r.Workers), "jobs", len(r.Jobs))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM workers`); err != nil {
		return fmt.Errorf("clear workers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
		return fmt.Errorf("clear jobs: %w", err)
	}

	for i, w := range r.Workers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO workers (name, position, height, stamina, is_senior, is_young, is_older)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			w.Name, i, w.Size.String(), w.Endurance.String(), w.IsSenior, w.IsYoung, w.IsOlder,
		)
		if err != nil {
			return fmt.Errorf("insert worker %s: %w", w.Name, err)
		}
	}
	for i, j := range r.Jobs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (name, position, min_height, min_stamina, senior_required, younger_required, older_required, requires_pair)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			j.Name, i, j.MinSize.String(), j.MinEndurance.String(),
			j.SeniorRequired, j.YoungerRequired, j.OlderRequired, j.RequiresPair,
		)
		if err != nil {
			return fmt.Errorf("insert job %s: %w", j.Name, err)
		}
	}

	return tx.Commit()
}

// LoadRoster returns the stored roster in position order. An empty store
// yields an empty roster.
func (s *SQLiteStore) LoadRoster(ctx context.Context) (*roster.Roster, error) {
	s.logger.Debug("sql", "op", "select", "table", "workers,jobs")

	r := &roster.Roster{Workers: []*model.Worker{}, Jobs: []*model.Job{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, height, stamina, is_senior, is_young, is_older FROM workers ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var w model.Worker
		var height, stamina string
		if err := rows.Scan(&w.Name, &height, &stamina, &w.IsSenior, &w.IsYoung, &w.IsOlder); err != nil {
			return nil, err
		}
		if w.Size, err = model.ParseSizeClass(height); err != nil {
			return nil, fmt.Errorf("worker %s: %w", w.Name, err)
		}
		if w.Endurance, err = model.ParseEnduranceClass(stamina); err != nil {
			return nil, fmt.Errorf("worker %s: %w", w.Name, err)
		}
		r.Workers = append(r.Workers, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	jobRows, err := s.db.QueryContext(ctx,
		`SELECT name, min_height, min_stamina, senior_required, younger_required, older_required, requires_pair
		 FROM jobs ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer jobRows.Close()
	for jobRows.Next() {
		var j model.Job
		var minHeight, minStamina string
		if err := jobRows.Scan(&j.Name, &minHeight, &minStamina,
			&j.SeniorRequired, &j.YoungerRequired, &j.OlderRequired, &j.RequiresPair); err != nil {
			return nil, err
		}
		if j.MinSize, err = model.ParseSizeClass(minHeight); err != nil {
			return nil, fmt.Errorf("job %s: %w", j.Name, err)
		}
		if j.MinEndurance, err = model.ParseEnduranceClass(minStamina); err != nil {
			return nil, fmt.Errorf("job %s: %w", j.Name, err)
		}
		r.Jobs = append(r.Jobs, &j)
	}
	return r, jobRows.Err()
}

// Load implements roster.Source.
func (s *SQLiteStore) Load(ctx context.Context) (*roster.Roster, error) {
	return s.LoadRoster(ctx)
}

// --- Rounds ---

func (s *SQLiteStore) SaveRound(ctx context.Context, rec *model.RoundRecord) error {
	s.logger.Debug("sql", "op", "insert", "table", "rounds", "id", rec.ID)

	idle := rec.Idle
	if idle == nil {
		idle = []string{}
	}
	idleJSON, err := json.Marshal(idle)
	if err != nil {
		return fmt.Errorf("marshal idle: %w", err)
	}
	assignmentsJSON, err := json.Marshal(rec.Assignments)
	if err != nil {
		return fmt.Errorf("marshal assignments: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rounds (id, attempts, quota, idle, assignments, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Attempts, rec.Quota, string(idleJSON), string(assignmentsJSON),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetRound(ctx context.Context, id string) (*model.RoundRecord, error) {
	s.logger.Debug("sql", "op", "select", "table", "rounds", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, attempts, quota, idle, assignments, created_at FROM rounds WHERE id = ?`, id)
	rec, err := scanRound(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteStore) ListRounds(ctx context.Context, opts model.ListOptions) ([]*model.RoundRecord, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "rounds", "limit", opts.Limit, "offset", opts.Offset)
	opts.Clamp()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rounds`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, attempts, quota, idle, assignments, created_at
		 FROM rounds ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rounds := []*model.RoundRecord{}
	for rows.Next() {
		rec, err := scanRound(rows)
		if err != nil {
			return nil, 0, err
		}
		rounds = append(rounds, rec)
	}
	return rounds, total, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRound(sc scanner) (*model.RoundRecord, error) {
	var rec model.RoundRecord
	var idleJSON, assignmentsJSON, createdAt string
	if err := sc.Scan(&rec.ID, &rec.Attempts, &rec.Quota, &idleJSON, &assignmentsJSON, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(idleJSON), &rec.Idle); err != nil {
		return nil, fmt.Errorf("unmarshal idle: %w", err)
	}
	if err := json.Unmarshal([]byte(assignmentsJSON), &rec.Assignments); err != nil {
		return nil, fmt.Errorf("unmarshal assignments: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &rec, nil
}
