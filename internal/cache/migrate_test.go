// File path: internal/cache/migrate_test.go
package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// createLegacyStore builds a version-0 database carrying the raw prompt and
// response columns that migration 001 removes.
func createLegacyStore(t *testing.T, path string) {
	t.Helper()
	db, err := sqlx.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("open legacy db: %v", err)
	}
	defer db.Close()
	statements := []string{
		`CREATE TABLE analysis_cache (
                        id INTEGER PRIMARY KEY AUTOINCREMENT,
                        file_hash TEXT NOT NULL,
                        pack_version TEXT NOT NULL,
                        rules_hash TEXT NOT NULL,
                        issues TEXT NOT NULL,
                        created_at INTEGER NOT NULL,
                        UNIQUE(file_hash, rules_hash)
                );`,
		`CREATE TABLE llm_logs (
                        id INTEGER PRIMARY KEY AUTOINCREMENT,
                        created_at INTEGER NOT NULL,
                        model TEXT NOT NULL,
                        pack TEXT NOT NULL DEFAULT '',
                        files TEXT NOT NULL DEFAULT '[]',
                        prompt_tokens INTEGER NOT NULL DEFAULT 0,
                        completion_tokens INTEGER NOT NULL DEFAULT 0,
                        total_tokens INTEGER NOT NULL DEFAULT 0,
                        cost_usd REAL NOT NULL DEFAULT 0,
                        duration_ms INTEGER NOT NULL DEFAULT 0,
                        issues_found INTEGER NOT NULL DEFAULT 0,
                        cached INTEGER NOT NULL DEFAULT 0,
                        prompt_text TEXT NOT NULL DEFAULT '',
                        response_text TEXT NOT NULL DEFAULT ''
                );`,
		`INSERT INTO llm_logs (created_at, model, prompt_text, response_text)
                 VALUES (1700000000, 'gpt-4o-mini', 'prompt body', 'response body');`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("prepare legacy schema: %v", err)
		}
	}
}

func tableColumns(t *testing.T, db *sqlx.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Queryx(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	defer rows.Close()
	columns := make(map[string]bool)
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			t.Fatalf("scan column: %v", err)
		}
		if name, ok := row["name"].(string); ok {
			columns[name] = true
		}
	}
	return columns
}

func TestOpenMigratesLegacyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	createLegacyStore(t, path)

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open migrated store: %v", err)
	}
	defer store.Close()

	columns := tableColumns(t, store.db, "llm_logs")
	if columns["prompt_text"] || columns["response_text"] {
		t.Fatalf("legacy columns survived migration: %v", columns)
	}
	version, err := schemaVersion(context.Background(), store.db)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Fatalf("expected version %d, got %d", LatestSchemaVersion(), version)
	}

	// The surviving row is still readable through the store API.
	logs, err := store.GetCallLogs(context.Background(), 10)
	if err != nil {
		t.Fatalf("get logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Model != "gpt-4o-mini" {
		t.Fatalf("legacy log row lost: %+v", logs)
	}
}

func TestOpenIsIdempotentOnMigratedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	createLegacyStore(t, path)

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open must be a no-op: %v", err)
	}
	second.Close()
}

func TestFreshStoreStampsLatestVersion(t *testing.T) {
	store := openTestStore(t)
	version, err := schemaVersion(context.Background(), store.db)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Fatalf("fresh store must carry version %d, got %d", LatestSchemaVersion(), version)
	}
}

func TestApplyPendingRejectsUnknownTarget(t *testing.T) {
	db, err := sqlx.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := applyPending(context.Background(), db, LatestSchemaVersion()+1); err == nil {
		t.Fatal("expected error for target beyond known migrations")
	}
}

func TestApplyPendingRejectsDowngrade(t *testing.T) {
	db, err := sqlx.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("PRAGMA user_version = 5"); err != nil {
		t.Fatalf("stamp version: %v", err)
	}
	if err := applyPending(context.Background(), db, LatestSchemaVersion()); err == nil {
		t.Fatal("expected downgrade error")
	}
}
