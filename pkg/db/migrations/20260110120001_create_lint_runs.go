package migrations

import (
	"database/sql"

	"github.com/SkillDoAI/skilldo/pkg/db"
	"github.com/pkg/errors"
)

// Migration20260110120001CreateLintRuns creates the lint_runs table.
func Migration20260110120001CreateLintRuns() db.Migration {
	return db.Migration{
		Version:     20260110120001,
		Description: "Create lint_runs table",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS lint_runs (
					id TEXT PRIMARY KEY,
					checked_files INTEGER NOT NULL,
					error_count INTEGER NOT NULL,
					warning_count INTEGER NOT NULL,
					findings TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create lint_runs table")
			}
			return nil
		},
		Down: func(tx *sql.Tx) error {
			if _, err := tx.Exec("DROP TABLE IF EXISTS lint_runs"); err != nil {
				return errors.Wrap(err, "failed to drop lint_runs table")
			}
			return nil
		},
	}
}
