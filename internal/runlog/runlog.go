// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog persists a small ledger of pipeline runs in SQLite so
// export and OCR invocations can be reviewed after the fact.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagebench/pkg/types"
)

const (
	dbFile = "runs.db"

	// DefaultLogDir holds the ledger when no directory is configured.
	DefaultLogDir = ".pagebench"

	defaultListLimit = 20
)

// Kind classifies a ledger entry by pipeline stage.
type Kind string

const (
	KindExport Kind = "export"
	KindOCR    Kind = "ocr"
)

// Record is one ledger entry.
type Record struct {
	ID        int64     `yaml:"id"`
	Kind      Kind      `yaml:"kind"`
	Source    string    `yaml:"source"`
	OutputDir string    `yaml:"output_dir"`
	Started   time.Time `yaml:"started"`
	Finished  time.Time `yaml:"finished"`
	Attempted int       `yaml:"attempted"`
	Succeeded int       `yaml:"succeeded"`
	Failed    int       `yaml:"failed"`
	OK        bool      `yaml:"ok"`
}

// Store manages the run ledger database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the ledger database at logDir/runs.db,
// creating the schema if it does not exist.
func NewStore(cfg types.RunLogConfig) (*Store, error) {
	logDir := cfg.LogDir
	if logDir == "" {
		logDir = DefaultLogDir
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	dbPath := filepath.Join(logDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening run ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		output_dir TEXT,
		started TEXT NOT NULL,
		finished TEXT NOT NULL,
		attempted INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		ok INTEGER NOT NULL
	)`)
	return err
}

// Record appends one entry to the ledger.
func (s *Store) Record(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (kind, source, output_dir, started, finished, attempted, succeeded, failed, ok)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.Kind), rec.Source, rec.OutputDir,
		rec.Started.UTC().Format(time.RFC3339), rec.Finished.UTC().Format(time.RFC3339),
		rec.Attempted, rec.Succeeded, rec.Failed, boolInt(rec.OK))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, source, output_dir, started, finished, attempted, succeeded, failed, ok
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var kind, started, finished string
		var ok int
		if err := rows.Scan(&rec.ID, &kind, &rec.Source, &rec.OutputDir,
			&started, &finished, &rec.Attempted, &rec.Succeeded, &rec.Failed, &ok); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.Kind = Kind(kind)
		rec.OK = ok != 0
		rec.Started, _ = time.Parse(time.RFC3339, started)
		rec.Finished, _ = time.Parse(time.RFC3339, finished)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Print writes the most recent entries to w as a table.
func (s *Store) Print(ctx context.Context, limit int, w io.Writer) error {
	records, err := s.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s %-8s %-20s %-28s %9s %9s %6s %-4s\n",
		"ID", "KIND", "STARTED", "SOURCE", "SUCCEEDED", "ATTEMPTED", "FAILED", "OK")
	for _, rec := range records {
		ok := "no"
		if rec.OK {
			ok = "yes"
		}
		fmt.Fprintf(w, "%-5d %-8s %-20s %-28s %9d %9d %6d %-4s\n",
			rec.ID, rec.Kind, rec.Started.Format("2006-01-02 15:04:05"),
			truncate(rec.Source, 28), rec.Succeeded, rec.Attempted, rec.Failed, ok)
	}
	return nil
}

// Export writes all entries to w as YAML, oldest first.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	records, err := s.List(ctx, 1<<30)
	if err != nil {
		return err
	}
	// List returns newest first; exports read better chronologically.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling runs: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// FromRunResult condenses an export RunResult into a ledger entry.
func FromRunResult(result *types.RunResult) Record {
	return Record{
		Kind:      KindExport,
		Source:    result.Source,
		OutputDir: result.BaseDir,
		Started:   result.Started,
		Finished:  time.Now().UTC(),
		Attempted: result.Attempted(),
		Succeeded: result.Succeeded(),
		Failed:    result.Failed(),
		OK:        result.OK(),
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
