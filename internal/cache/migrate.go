// File path: internal/cache/migrate.go
package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration upgrades the store schema TO its version. Apply functions must
// tolerate stores that already carry the target shape, since a legacy table
// and a freshly created one both pass through the same runner.
type migration struct {
	version int
	apply   func(ctx context.Context, tx *sqlx.Tx) error
}

// migrations is ordered and monotonic: migrations[i] upgrades to version i+1.
var migrations = []migration{
	{version: 1, apply: dropPromptResponseColumns},
}

// LatestSchemaVersion is the version a fully migrated store carries.
func LatestSchemaVersion() int {
	return len(migrations)
}

func schemaVersion(ctx context.Context, db *sqlx.DB) (int, error) {
	var version int
	if err := db.GetContext(ctx, &version, `PRAGMA user_version`); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// applyPending upgrades the store from its current version to target.
// A target beyond the known migrations means the store file comes from a
// newer build; a target below the current version is a downgrade. Both are
// fatal. Running against an already-current store is a no-op.
func applyPending(ctx context.Context, db *sqlx.DB, target int) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if target > len(migrations) {
		return fmt.Errorf("schema target %d exceeds known migrations (%d)", target, len(migrations))
	}
	if target < current {
		return fmt.Errorf("schema downgrade from %d to %d is not supported", current, target)
	}
	for _, m := range migrations[current:target] {
		if err := applyOne(ctx, db, m); err != nil {
			return err
		}
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", target)); err != nil {
		return fmt.Errorf("stamp schema version %d: %w", target, err)
	}
	return nil
}

func applyOne(ctx context.Context, db *sqlx.DB, m migration) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.version, err)
	}
	if err := m.apply(ctx, tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("apply migration %d: %w", m.version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.version, err)
	}
	return nil
}

// Migration 001: drop prompt_text/response_text from llm_logs. Raw prompts
// and responses bloated the store and logs carry token counts instead.
func dropPromptResponseColumns(ctx context.Context, tx *sqlx.Tx) error {
	rows, err := tx.QueryxContext(ctx, `PRAGMA table_info(llm_logs)`)
	if err != nil {
		return fmt.Errorf("inspect llm_logs: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("scan llm_logs column: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, column := range []string{"prompt_text", "response_text"} {
		if !existing[column] {
			continue
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE llm_logs DROP COLUMN %s", column)); err != nil {
			return fmt.Errorf("drop llm_logs.%s: %w", column, err)
		}
	}
	return nil
}
