// Package cache provides the embedded SQLite query cache for waymark.
//
// The collections on disk stay the source of truth; the cache mirrors
// waypoints and dependency edges into .waymark/cache.db so status
// breakdowns and ready-work queries don't have to re-read and re-derive
// the whole collection. A full sync replaces the mirror wholesale, and
// the daemon re-syncs whenever the collection files change.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/steveyegge/waymark/internal/types"
)

// DB wraps the embedded SQLite connection holding the waypoint mirror.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the cache database at path. WAL mode keeps
// readers unblocked during syncs. The caller must Close.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping cache database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn, path: path}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.conn.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}
	err := db.conn.Close()
	db.conn = nil
	if err != nil {
		return fmt.Errorf("close cache database: %w", err)
	}
	return nil
}

// InitSchema creates the mirror tables and indexes. Idempotent.
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS waypoints (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		reasoning TEXT,
		branch TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS deps (
		waypoint_id TEXT NOT NULL,
		depends_on_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (waypoint_id, depends_on_id),
		FOREIGN KEY (waypoint_id) REFERENCES waypoints(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_waypoints_status ON waypoints(status);
	CREATE INDEX IF NOT EXISTS idx_waypoints_branch ON waypoints(branch);
	CREATE INDEX IF NOT EXISTS idx_waypoints_ready
	    ON waypoints(branch, status) WHERE status = 'ready';
	CREATE INDEX IF NOT EXISTS idx_deps_target ON deps(depends_on_id);
	`
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initialize cache schema: %w", err)
	}
	return nil
}

// ReplaceAll swaps the full mirror for the given snapshot in one
// transaction. Derived statuses must already be computed on the input.
func (db *DB) ReplaceAll(ctx context.Context, wps []*types.Waypoint) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache sync: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM deps"); err != nil {
		return fmt.Errorf("clear deps: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM waypoints"); err != nil {
		return fmt.Errorf("clear waypoints: %w", err)
	}

	insertWP, err := tx.PrepareContext(ctx, `
		INSERT INTO waypoints (id, title, description, status, reasoning, branch, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare waypoint insert: %w", err)
	}
	defer insertWP.Close()

	insertDep, err := tx.PrepareContext(ctx, `
		INSERT INTO deps (waypoint_id, depends_on_id, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare dep insert: %w", err)
	}
	defer insertDep.Close()

	for _, wp := range wps {
		_, err := insertWP.ExecContext(ctx,
			wp.ID, wp.Title, wp.Description, string(wp.Status), wp.Reasoning, wp.Branch,
			wp.CreatedAt.Format(time.RFC3339Nano), wp.UpdatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert waypoint %s: %w", wp.ID, err)
		}
	}
	for _, wp := range wps {
		for i, dep := range wp.DependsOn {
			if _, err := insertDep.ExecContext(ctx, wp.ID, dep, i); err != nil {
				return fmt.Errorf("insert dep %s -> %s: %w", wp.ID, dep, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache sync: %w", err)
	}
	return nil
}

// WaypointCount returns the number of mirrored waypoints.
func (db *DB) WaypointCount(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM waypoints").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count waypoints: %w", err)
	}
	return n, nil
}

// DepCount returns the number of mirrored dependency edges.
func (db *DB) DepCount(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM deps").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count deps: %w", err)
	}
	return n, nil
}

// Stats summarizes the mirror for dashboards and `wm cache status`.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	Ready    int            `json:"ready"`
	Blocked  int            `json:"blocked"`
}

// GetStats returns counts by status across all branches.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM waypoints GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{ByStatus: make(map[string]int)}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats.ByStatus[status] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	stats.Ready = stats.ByStatus[string(types.StatusReady)]
	stats.Blocked = stats.ByStatus[string(types.StatusBlocked)]
	return stats, nil
}

// ReadyIDs returns the ids of ready waypoints on the branch, in insert
// order. An empty branch matches every branch.
func (db *DB) ReadyIDs(ctx context.Context, branch string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id FROM waypoints
		WHERE status = 'ready' AND (? = '' OR branch = ?)
		ORDER BY rowid`, branch, branch)
	if err != nil {
		return nil, fmt.Errorf("query ready waypoints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan ready waypoint: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
