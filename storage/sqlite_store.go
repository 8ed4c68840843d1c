package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xa0627-sys/momoshop-watch/catalog"
	"github.com/xa0627-sys/momoshop-watch/importer"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// SQLiteStore is the load journal. It records every load attempt and its
// per-source counts; merged products are never persisted.
type SQLiteStore struct {
	db *sql.DB
}

var ErrLoadNotFound = errors.New("load not found")

// Fixed-width UTC timestamps keep started_at ordered as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// LoadRun is one journaled load attempt.
type LoadRun struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Products   int
	Categories int
	Message    string
	Sources    []SourceRun
}

// SourceRun holds the counts of one source within a load.
type SourceRun struct {
	Source     string
	ListRows   int
	DetailRows int
	Mapped     int
	Retained   int
}

// NewLoadRun summarizes a load attempt. result and store are ignored when
// loadErr is set.
func NewLoadRun(startedAt time.Time, result *importer.Result, store *catalog.Store, loadErr error) LoadRun {
	run := LoadRun{
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Status:     StatusSucceeded,
	}
	if loadErr != nil {
		run.Status = StatusFailed
		run.Message = loadErr.Error()
		return run
	}

	run.Products = store.Len()
	run.Categories = len(store.Categories())
	run.Message = fmt.Sprintf("Loaded %d products", store.Len())

	retained := store.CountBySource()
	for _, source := range result.Sources {
		run.Sources = append(run.Sources, SourceRun{
			Source:     source.Source.ID,
			ListRows:   source.ListRows,
			DetailRows: source.DetailRows,
			Mapped:     len(source.Items),
			Retained:   retained[source.Source.ID],
		})
	}
	return run
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS loads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('succeeded', 'failed')),
	products INTEGER NOT NULL CHECK(products >= 0),
	categories INTEGER NOT NULL CHECK(categories >= 0),
	message TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS load_sources (
	load_id INTEGER NOT NULL REFERENCES loads(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	source TEXT NOT NULL,
	list_rows INTEGER NOT NULL,
	detail_rows INTEGER NOT NULL,
	mapped INTEGER NOT NULL,
	retained INTEGER NOT NULL,
	PRIMARY KEY(load_id, position)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// RecordLoad stores run and its sources in one transaction and returns the new load ID.
func (s *SQLiteStore) RecordLoad(run LoadRun) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	res, err := tx.Exec(`
INSERT INTO loads (
	started_at,
	finished_at,
	status,
	products,
	categories,
	message
) VALUES (?, ?, ?, ?, ?, ?);`,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.Status,
		run.Products,
		run.Categories,
		run.Message,
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert load: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read inserted load id: %w", err)
	}

	if len(run.Sources) > 0 {
		stmt, err := tx.Prepare(`
INSERT INTO load_sources (
	load_id,
	position,
	source,
	list_rows,
	detail_rows,
	mapped,
	retained
) VALUES (?, ?, ?, ?, ?, ?, ?);`)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("prepare source statement: %w", err)
		}
		defer stmt.Close()

		for i, source := range run.Sources {
			if _, err := stmt.Exec(id, i, source.Source, source.ListRows, source.DetailRows, source.Mapped, source.Retained); err != nil {
				_ = tx.Rollback()
				return 0, fmt.Errorf("insert load source %s: %w", source.Source, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// ListLoads returns the most recent loads first. A limit <= 0 returns all loads.
func (s *SQLiteStore) ListLoads(limit int) ([]LoadRun, error) {
	query := `
SELECT
	id,
	started_at,
	finished_at,
	status,
	products,
	categories,
	message
FROM loads
ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("query loads: %w", err)
	}

	runs := make([]LoadRun, 0, 16)
	for rows.Next() {
		run, err := scanLoad(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate loads: %w", err)
	}
	_ = rows.Close()

	for i := range runs {
		sources, err := s.listSources(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Sources = sources
	}
	return runs, nil
}

// GetLoad returns one load by ID.
func (s *SQLiteStore) GetLoad(id int64) (LoadRun, error) {
	if id <= 0 {
		return LoadRun{}, fmt.Errorf("load id must be > 0")
	}

	row := s.db.QueryRow(`
SELECT
	id,
	started_at,
	finished_at,
	status,
	products,
	categories,
	message
FROM loads
WHERE id = ?;`, id)

	run, err := scanLoad(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LoadRun{}, fmt.Errorf("%w: %d", ErrLoadNotFound, id)
		}
		return LoadRun{}, err
	}

	run.Sources, err = s.listSources(id)
	if err != nil {
		return LoadRun{}, err
	}
	return run, nil
}

// DeleteLoadsBefore removes loads that started before cutoff and returns how many were removed.
func (s *SQLiteStore) DeleteLoadsBefore(cutoff time.Time) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const selectIDs = `SELECT id FROM loads WHERE started_at < ?`
	cutoffRaw := cutoff.UTC().Format(timeLayout)

	if _, err := tx.Exec(`DELETE FROM load_sources WHERE load_id IN (`+selectIDs+`);`, cutoffRaw); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete load sources: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM loads WHERE started_at < ?;`, cutoffRaw)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete loads: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return int(deleted), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoad(row rowScanner) (LoadRun, error) {
	var (
		run         LoadRun
		startedRaw  string
		finishedRaw string
	)
	if err := row.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.Status,
		&run.Products,
		&run.Categories,
		&run.Message,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LoadRun{}, err
		}
		return LoadRun{}, fmt.Errorf("scan load: %w", err)
	}

	var err error
	run.StartedAt, err = time.Parse(timeLayout, startedRaw)
	if err != nil {
		return LoadRun{}, fmt.Errorf("parse started_at %q: %w", startedRaw, err)
	}
	run.FinishedAt, err = time.Parse(timeLayout, finishedRaw)
	if err != nil {
		return LoadRun{}, fmt.Errorf("parse finished_at %q: %w", finishedRaw, err)
	}
	return run, nil
}

func (s *SQLiteStore) listSources(loadID int64) ([]SourceRun, error) {
	rows, err := s.db.Query(`
SELECT
	source,
	list_rows,
	detail_rows,
	mapped,
	retained
FROM load_sources
WHERE load_id = ?
ORDER BY position;`, loadID)
	if err != nil {
		return nil, fmt.Errorf("query load sources: %w", err)
	}
	defer rows.Close()

	sources := make([]SourceRun, 0, 2)
	for rows.Next() {
		var source SourceRun
		if err := rows.Scan(&source.Source, &source.ListRows, &source.DetailRows, &source.Mapped, &source.Retained); err != nil {
			return nil, fmt.Errorf("scan load source: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate load sources: %w", err)
	}
	return sources, nil
}
