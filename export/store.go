package export

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/wudi/pdffield/fields"
)

// Store archives extraction runs in a SQLite database so repeated runs
// over the same documents stay comparable.
//
// A single database file holds all runs; each document row links to its
// field rows. SQLite only supports one writer, so the pool is pinned to a
// single connection.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the run archive at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create result store schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		error TEXT,
		created DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_name ON documents(name);

	CREATE TABLE IF NOT EXISTS field_values (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL REFERENCES documents(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		valid INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_field_values_document ON field_values(document_id);
	CREATE INDEX IF NOT EXISTS idx_field_values_name ON field_values(name);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveResult archives one document's extraction outcome.
func (s *Store) SaveResult(ctx context.Context, r Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	errText := sql.NullString{}
	if r.Err != nil {
		errText = sql.NullString{String: r.Err.Error(), Valid: true}
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (name, path, elapsed_ms, error) VALUES (?, ?, ?, ?)`,
		r.Document, r.Path, r.Elapsed.Milliseconds(), errText)
	if err != nil {
		return fmt.Errorf("save document %s: %w", r.Document, err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("save document %s: %w", r.Document, err)
	}

	for i, v := range r.Values {
		valid := 0
		if v.Valid {
			valid = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO field_values (document_id, position, name, value, valid) VALUES (?, ?, ?, ?, ?)`,
			docID, i, v.Name, v.Text, valid); err != nil {
			return fmt.Errorf("save field %s of %s: %w", v.Name, r.Document, err)
		}
	}
	return tx.Commit()
}

// LoadResults returns the most recent archived result per document name,
// ordered by document name.
func (s *Store) LoadResults(ctx context.Context) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.path, d.elapsed_ms
		FROM documents d
		JOIN (SELECT name, MAX(id) AS id FROM documents GROUP BY name) latest
			ON d.id = latest.id
		ORDER BY d.name`)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	type docRow struct {
		id int64
		r  Result
	}
	var docs []docRow
	for rows.Next() {
		var d docRow
		var elapsedMS int64
		if err := rows.Scan(&d.id, &d.r.Document, &d.r.Path, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	results := make([]Result, 0, len(docs))
	for _, d := range docs {
		values, err := s.loadValues(ctx, d.id)
		if err != nil {
			return nil, err
		}
		d.r.Values = values
		results = append(results, d.r)
	}
	return results, nil
}

func (s *Store) loadValues(ctx context.Context, docID int64) ([]fields.Value, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value, valid FROM field_values WHERE document_id = ? ORDER BY position`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("load fields: %w", err)
	}
	defer rows.Close()

	var values []fields.Value
	for rows.Next() {
		var v fields.Value
		var valid int
		if err := rows.Scan(&v.Name, &v.Text, &valid); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		v.Valid = valid == 1
		values = append(values, v)
	}
	return values, rows.Err()
}

// DefaultStorePath places the archive next to the CSV output.
func DefaultStorePath(outDir string) string {
	return filepath.Join(outDir, "pdffield.db")
}
