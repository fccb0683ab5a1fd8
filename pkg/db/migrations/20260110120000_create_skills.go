package migrations

import (
	"database/sql"

	"github.com/SkillDoAI/skilldo/pkg/db"
	"github.com/pkg/errors"
)

// Migration20260110120000CreateSkills creates the skills, skill_sections and
// skill_code_blocks tables.
func Migration20260110120000CreateSkills() db.Migration {
	return db.Migration{
		Version:     20260110120000,
		Description: "Create skills, skill_sections and skill_code_blocks tables",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS skills (
					name TEXT PRIMARY KEY,
					description TEXT NOT NULL,
					version TEXT NOT NULL,
					ecosystem TEXT NOT NULL,
					license TEXT NOT NULL,
					generated_with TEXT,
					path TEXT NOT NULL,
					body TEXT NOT NULL,
					indexed_at DATETIME NOT NULL
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create skills table")
			}

			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS skill_sections (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					skill_name TEXT NOT NULL REFERENCES skills(name) ON DELETE CASCADE,
					title TEXT NOT NULL,
					position INTEGER NOT NULL,
					line INTEGER NOT NULL
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create skill_sections table")
			}

			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS skill_code_blocks (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					skill_name TEXT NOT NULL REFERENCES skills(name) ON DELETE CASCADE,
					language TEXT NOT NULL,
					content TEXT NOT NULL,
					line INTEGER NOT NULL
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create skill_code_blocks table")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_skill_sections_skill_name
				ON skill_sections(skill_name)
			`); err != nil {
				return errors.Wrap(err, "failed to create skill_sections index")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_skill_code_blocks_skill_name
				ON skill_code_blocks(skill_name)
			`); err != nil {
				return errors.Wrap(err, "failed to create skill_code_blocks index")
			}

			return nil
		},
		Down: func(tx *sql.Tx) error {
			if _, err := tx.Exec("DROP TABLE IF EXISTS skill_code_blocks"); err != nil {
				return errors.Wrap(err, "failed to drop skill_code_blocks table")
			}
			if _, err := tx.Exec("DROP TABLE IF EXISTS skill_sections"); err != nil {
				return errors.Wrap(err, "failed to drop skill_sections table")
			}
			if _, err := tx.Exec("DROP TABLE IF EXISTS skills"); err != nil {
				return errors.Wrap(err, "failed to drop skills table")
			}
			return nil
		},
	}
}
