package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"MysteryChart/internal/model"
)

// SQLiteRecorder persists render job history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS render_jobs (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			source      TEXT,
			symbol      TEXT,
			label       TEXT,
			points      INTEGER,
			frames      INTEGER,
			reveal      INTEGER,
			output_path TEXT,
			output_size INTEGER,
			elapsed_ms  INTEGER,
			status      TEXT,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_started ON render_jobs(started_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordJob inserts one completed (or failed) render job.
func (r *SQLiteRecorder) RecordJob(job *model.RenderJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO render_jobs
		(id, started_at, source, symbol, label, points, frames, reveal,
		 output_path, output_size, elapsed_ms, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.StartedAt.Unix(), job.Source, job.Symbol, job.Label,
		job.Points, job.Frames, boolToInt(job.Reveal),
		job.OutputPath, job.OutputSize, job.Elapsed.Milliseconds(),
		job.Status, job.Error)
	if err != nil {
		return fmt.Errorf("insert render job: %w", err)
	}
	return nil
}

// RecentJobs returns up to limit jobs, newest first.
func (r *SQLiteRecorder) RecentJobs(limit int) ([]model.RenderJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, started_at, source, symbol, label, points,
		frames, reveal, output_path, output_size, elapsed_ms, status, error
		FROM render_jobs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query render jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.RenderJob
	for rows.Next() {
		var j model.RenderJob
		var startedAt int64
		var reveal int
		var elapsedMs int64
		if err := rows.Scan(&j.ID, &startedAt, &j.Source, &j.Symbol, &j.Label,
			&j.Points, &j.Frames, &reveal, &j.OutputPath, &j.OutputSize,
			&elapsedMs, &j.Status, &j.Error); err != nil {
			return nil, fmt.Errorf("scan render job: %w", err)
		}
		j.StartedAt = time.Unix(startedAt, 0)
		j.Reveal = reveal != 0
		j.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
