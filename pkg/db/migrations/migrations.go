// Package migrations contains all database migrations for the corpus index.
// Migrations use Rails-style timestamp versioning (YYYYMMDDHHmmss).
package migrations

import (
	"github.com/SkillDoAI/skilldo/pkg/db"
)

// All returns all registered migrations in the correct order.
// New migrations should be added to this list.
func All() []db.Migration {
	return []db.Migration{
		Migration20260110120000CreateSkills(),
		Migration20260110120001CreateLintRuns(),
	}
}
