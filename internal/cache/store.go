// File path: internal/cache/store.go

// Package cache persists analysis results and provider-call logs in a single
// schema-versioned SQLite file so repeated runs skip the expensive provider.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"codecritic/internal/common"
	"codecritic/internal/issue"
)

const hotCacheSize = 512

// Store wraps a pooled sqlx.DB connection to the result cache, fronted by a
// small in-process LRU so repeated lookups within one run skip SQLite.
type Store struct {
	db   *sqlx.DB
	path string
	ttl  time.Duration
	hot  *lru.Cache[string, hotEntry]

	// now is swappable for expiry tests.
	now func() time.Time
}

type hotEntry struct {
	issues    []issue.Issue
	createdAt time.Time
}

// Open constructs a Store backed by the SQLite database at path. The schema
// is created and migrated to the latest version before first use; open
// failures and migration faults are fatal.
func Open(path string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		cfg.Path = trimmed
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig constructs a Store using the provided configuration.
func OpenWithConfig(cfg Config) (*Store, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve cache path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	busy := int(cfg.BusyTimeout / time.Millisecond)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", abs, busy)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BusyTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache db: %w", err)
	}

	hot, err := lru.New[string, hotEntry](hotCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init hot cache: %w", err)
	}
	store := &Store{db: db, path: abs, ttl: cfg.TTL, hot: hot, now: time.Now}
	if err := store.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	if err := applyPending(context.Background(), db, LatestSchemaVersion()); err != nil {
		db.Close()
		return nil, err
	}
	common.Logger().Debug("cache: store opened", "path", abs, "ttl", cfg.TTL)
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS analysis_cache (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                file_hash TEXT NOT NULL,
                pack_version TEXT NOT NULL,
                rules_hash TEXT NOT NULL,
                issues TEXT NOT NULL,
                created_at INTEGER NOT NULL,
                UNIQUE(file_hash, rules_hash)
        );`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_cache_created ON analysis_cache(created_at);`,
	`CREATE TABLE IF NOT EXISTS llm_logs (
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
                cached INTEGER NOT NULL DEFAULT 0
        );`,
	`CREATE INDEX IF NOT EXISTS idx_llm_logs_created ON llm_logs(created_at);`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin schema setup: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema setup: %w", err)
	}
	return nil
}

func hotKey(fileHash, packVersion, rulesHash string) string {
	return fileHash + "|" + packVersion + "|" + rulesHash
}

func (s *Store) expired(createdAt time.Time) bool {
	return s.now().Sub(createdAt) > s.ttl
}

// Get returns the cached findings for the exact key triple, or ok=false when
// no live entry matches. Absence and expiry are normal outcomes, not errors.
func (s *Store) Get(ctx context.Context, fileHash, packVersion, rulesHash string) ([]issue.Issue, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, errors.New("cache store not initialised")
	}
	key := hotKey(fileHash, packVersion, rulesHash)
	if entry, ok := s.hot.Get(key); ok {
		if s.expired(entry.createdAt) {
			s.hot.Remove(key)
		} else {
			return cloneIssues(entry.issues), true, nil
		}
	}

	var row struct {
		Issues    string `db:"issues"`
		CreatedAt int64  `db:"created_at"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT issues, created_at FROM analysis_cache
                 WHERE file_hash = ? AND pack_version = ? AND rules_hash = ?`,
		fileHash, packVersion, rulesHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select cache entry: %w", err)
	}
	createdAt := time.Unix(row.CreatedAt, 0)
	if s.expired(createdAt) {
		return nil, false, nil
	}
	issues := []issue.Issue{}
	if err := json.Unmarshal([]byte(row.Issues), &issues); err != nil {
		return nil, false, fmt.Errorf("decode cached issues: %w", err)
	}
	s.hot.Add(key, hotEntry{issues: cloneIssues(issues), createdAt: createdAt})
	return issues, true, nil
}

// Put upserts the findings under the key triple, replacing any existing
// entry for the same hash pair and restarting its TTL window.
func (s *Store) Put(ctx context.Context, fileHash, packVersion, rulesHash string, issues []issue.Issue) error {
	if s == nil || s.db == nil {
		return errors.New("cache store not initialised")
	}
	if issues == nil {
		issues = []issue.Issue{}
	}
	encoded, err := json.Marshal(issues)
	if err != nil {
		return fmt.Errorf("encode issues: %w", err)
	}
	createdAt := s.now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analysis_cache (file_hash, pack_version, rules_hash, issues, created_at)
                 VALUES (?, ?, ?, ?, ?)
                 ON CONFLICT(file_hash, rules_hash) DO UPDATE SET
                        pack_version = excluded.pack_version,
                        issues = excluded.issues,
                        created_at = excluded.created_at`,
		fileHash, packVersion, rulesHash, string(encoded), createdAt)
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	s.hot.Add(hotKey(fileHash, packVersion, rulesHash), hotEntry{
		issues:    cloneIssues(issues),
		createdAt: time.Unix(createdAt, 0),
	})
	return nil
}

// Clear deletes all cache rows (call logs are kept) and reports how many
// were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("cache store not initialised")
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM analysis_cache`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared rows: %w", err)
	}
	s.hot.Purge()
	return removed, nil
}

// Stats reports the live entry count and the approximate store size on disk.
func (s *Store) Stats(ctx context.Context) (CacheStats, error) {
	if s == nil || s.db == nil {
		return CacheStats{}, errors.New("cache store not initialised")
	}
	var stats CacheStats
	if err := s.db.GetContext(ctx, &stats.Entries, `SELECT COUNT(*) FROM analysis_cache`); err != nil {
		return CacheStats{}, fmt.Errorf("count cache entries: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

// LogCall appends one provider-call row and returns the cost charged. When
// the record carries no cost it is computed from the pricing table; unknown
// models cost zero.
func (s *Store) LogCall(ctx context.Context, record CallRecord) (float64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("cache store not initialised")
	}
	cost := estimateCost(record.Model, record.PromptTokens, record.CompletionTokens)
	if record.CostUSD != nil {
		cost = *record.CostUSD
	}
	files := record.Files
	if files == nil {
		files = []string{}
	}
	encodedFiles, err := json.Marshal(files)
	if err != nil {
		return 0, fmt.Errorf("encode call files: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO llm_logs (created_at, model, pack, files, prompt_tokens, completion_tokens,
                                       total_tokens, cost_usd, duration_ms, issues_found, cached)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.now().Unix(), record.Model, record.Pack, string(encodedFiles),
		record.PromptTokens, record.CompletionTokens,
		record.PromptTokens+record.CompletionTokens,
		cost, record.DurationMS, record.IssuesFound, record.Cached)
	if err != nil {
		return 0, fmt.Errorf("insert call log: %w", err)
	}
	return cost, nil
}

// GetCallLogs returns the most recent provider-call rows, newest first.
func (s *Store) GetCallLogs(ctx context.Context, limit int) ([]CallLog, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("cache store not initialised")
	}
	if limit <= 0 {
		limit = 50
	}
	logs := []CallLog{}
	err := s.db.SelectContext(ctx, &logs,
		`SELECT * FROM llm_logs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select call logs: %w", err)
	}
	return logs, nil
}

// GetCostSummary aggregates call logs over the trailing number of days.
func (s *Store) GetCostSummary(ctx context.Context, days int) (CostSummary, error) {
	if s == nil || s.db == nil {
		return CostSummary{}, errors.New("cache store not initialised")
	}
	if days <= 0 {
		days = 30
	}
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	var row struct {
		TotalCalls  int64   `db:"total_calls"`
		TotalTokens int64   `db:"total_tokens"`
		TotalCost   float64 `db:"total_cost"`
		TotalIssues int64   `db:"total_issues"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT COUNT(*) AS total_calls,
                        COALESCE(SUM(total_tokens), 0) AS total_tokens,
                        COALESCE(SUM(cost_usd), 0) AS total_cost,
                        COALESCE(SUM(issues_found), 0) AS total_issues
                 FROM llm_logs WHERE created_at >= ?`, cutoff)
	if err != nil {
		return CostSummary{}, fmt.Errorf("aggregate call logs: %w", err)
	}
	return CostSummary{
		TotalCalls:  row.TotalCalls,
		TotalTokens: row.TotalTokens,
		TotalCost:   row.TotalCost,
		TotalIssues: row.TotalIssues,
	}, nil
}

func cloneIssues(issues []issue.Issue) []issue.Issue {
	out := make([]issue.Issue, len(issues))
	copy(out, issues)
	return out
}
