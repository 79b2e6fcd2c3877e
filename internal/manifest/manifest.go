// Package manifest implements the install registry using SQLite.
//
// Every install records what was put on disk (files, shortcut, PATH entry)
// so uninstall and doctor can work from facts instead of guesses.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	sqlite3 "github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver" // database/sql driver
	_ "github.com/ncruces/go-sqlite3/embed"  // embedded SQLite WASM
	"github.com/tetratelabs/wazero"
)

// Store is the SQLite-backed install registry.
type Store struct {
	db     *sql.DB
	dbPath string
	closed atomic.Bool
}

// Record describes one managed installation.
type Record struct {
	ID          int64     `json:"id"`
	App         string    `json:"app"`
	Version     string    `json:"version"`
	InstallDir  string    `json:"install_dir"`
	Executable  string    `json:"executable"`
	Shortcut    string    `json:"shortcut,omitempty"`
	PathAdded   bool      `json:"path_added"`
	InstalledAt time.Time `json:"installed_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Files       []string  `json:"files"`
}

// setupWASMCache configures WASM compilation caching so the embedded SQLite
// engine is not recompiled on every process start. Falls back to an
// in-memory cache when the filesystem cache cannot be created.
func setupWASMCache() {
	var cache wazero.CompilationCache
	if userCache, err := os.UserCacheDir(); err == nil {
		if c, err := wazero.NewCompilationCacheWithDir(filepath.Join(userCache, "docling-mine", "wasm")); err == nil {
			cache = c
		}
	}
	if cache == nil {
		cache = wazero.NewCompilationCache()
	}
	sqlite3.RuntimeConfig = wazero.NewRuntimeConfig().WithCompilationCache(cache)
}

func init() {
	setupWASMCache()
}

// DefaultPath returns the manifest database location under the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "docling-mine", "manifest.db"), nil
}

// New opens (or creates) the manifest database at path.
func New(path string) (*Store, error) {
	var connStr string
	if path == ":memory:" {
		// Shared in-memory database; WAL does not work here, use DELETE mode
		connStr = "file:memdb?mode=memory&cache=shared&_pragma=journal_mode(DELETE)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create manifest directory: %w", err)
		}
		connStr = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("open manifest database: %w", err)
	}

	// In-memory databases are per connection; force a single one so all
	// statements see the same data.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping manifest database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db, dbPath: path}, nil
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the underlying database. Safe to call twice.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// RecordInstall inserts or replaces the record for rec.App, including its
// file list, in one transaction.
func (s *Store) RecordInstall(ctx context.Context, rec *Record) error {
	if rec.App == "" {
		return errors.New("record install: empty app name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO installs (app, version, install_dir, executable, shortcut, path_added, installed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(app) DO UPDATE SET
			version = excluded.version,
			install_dir = excluded.install_dir,
			executable = excluded.executable,
			shortcut = excluded.shortcut,
			path_added = excluded.path_added,
			updated_at = excluded.updated_at`,
		rec.App, rec.Version, rec.InstallDir, rec.Executable, rec.Shortcut,
		boolToInt(rec.PathAdded), now, now)
	if err != nil {
		return fmt.Errorf("upsert install: %w", err)
	}

	// LastInsertId is unreliable after an upsert UPDATE: it reports the last
	// row actually inserted on the connection, which can belong to another
	// app. Always resolve the id by name.
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM installs WHERE app = ?`, rec.App).Scan(&id); err != nil {
		return fmt.Errorf("resolve install id: %w", err)
	}
	rec.ID = id

	if _, err := tx.ExecContext(ctx, `DELETE FROM install_files WHERE install_id = ?`, id); err != nil {
		return fmt.Errorf("clear file list: %w", err)
	}
	for _, f := range rec.Files {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO install_files (install_id, path) VALUES (?, ?)`, id, f); err != nil {
			return fmt.Errorf("record file %s: %w", f, err)
		}
	}

	return tx.Commit()
}

// Get returns the record for app, or nil if the app was never installed.
func (s *Store) Get(ctx context.Context, app string) (*Record, error) {
	rec := &Record{}
	var pathAdded int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, app, version, install_dir, executable, shortcut, path_added, installed_at, updated_at
		FROM installs WHERE app = ?`, app).Scan(
		&rec.ID, &rec.App, &rec.Version, &rec.InstallDir, &rec.Executable,
		&rec.Shortcut, &pathAdded, &rec.InstalledAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query install: %w", err)
	}
	rec.PathAdded = pathAdded != 0

	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM install_files WHERE install_id = ? ORDER BY path`, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("query file list: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		rec.Files = append(rec.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return rec, nil
}

// Delete removes the record for app. Deleting an app that was never
// recorded is not an error.
func (s *Store) Delete(ctx context.Context, app string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM installs WHERE app = ?`, app); err != nil {
		return fmt.Errorf("delete install: %w", err)
	}
	return nil
}

// List returns all recorded installs ordered by app name, without file
// lists.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, app, version, install_dir, executable, shortcut, path_added, installed_at, updated_at
		FROM installs ORDER BY app`)
	if err != nil {
		return nil, fmt.Errorf("query installs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []Record
	for rows.Next() {
		var rec Record
		var pathAdded int
		if err := rows.Scan(&rec.ID, &rec.App, &rec.Version, &rec.InstallDir,
			&rec.Executable, &rec.Shortcut, &pathAdded, &rec.InstalledAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan install: %w", err)
		}
		rec.PathAdded = pathAdded != 0
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate installs: %w", err)
	}
	return recs, nil
}

// FilesUnder returns the recorded files for app that live under dir.
func (r *Record) FilesUnder(dir string) []string {
	var out []string
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	for _, f := range r.Files {
		if strings.HasPrefix(filepath.Clean(f), prefix) {
			out = append(out, f)
		}
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
