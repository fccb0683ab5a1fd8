// Package index maintains a SQLite index of the corpus so skills can be
// listed and searched without re-reading every document. The index is a
// cache over the Markdown files; Rebuild replaces it wholesale.
package index

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SkillDoAI/skilldo/pkg/db"
	"github.com/SkillDoAI/skilldo/pkg/db/migrations"
	"github.com/SkillDoAI/skilldo/pkg/lint"
	"github.com/SkillDoAI/skilldo/pkg/skill"
)

// Store provides access to the corpus index database.
type Store struct {
	db *sqlx.DB
}

// Record is an indexed skill row.
type Record struct {
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Version       string    `db:"version" json:"version"`
	Ecosystem     string    `db:"ecosystem" json:"ecosystem"`
	License       string    `db:"license" json:"license"`
	GeneratedWith *string   `db:"generated_with" json:"generated_with,omitempty"`
	Path          string    `db:"path" json:"path"`
	Body          string    `db:"body" json:"-"`
	IndexedAt     time.Time `db:"indexed_at" json:"indexed_at"`
}

// LintRunRecord is a stored lint run summary.
type LintRunRecord struct {
	ID           string    `db:"id" json:"id"`
	CheckedFiles int       `db:"checked_files" json:"checked_files"`
	ErrorCount   int       `db:"error_count" json:"error_count"`
	WarningCount int       `db:"warning_count" json:"warning_count"`
	Findings     string    `db:"findings" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewStore opens the index database at dbPath and applies pending migrations.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	sqlDB, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	runner := db.NewMigrationRunner(sqlDB)
	if err := runner.Run(ctx, migrations.All()); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "failed to run index migrations")
	}

	return &Store{db: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Rebuild replaces the whole index with the given skills in one transaction.
func (s *Store) Rebuild(ctx context.Context, skills map[string]*skill.Skill) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, table := range []string{"skill_code_blocks", "skill_sections", "skills"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "failed to clear %s", table)
		}
	}

	now := time.Now().UTC()

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sk := skills[name]

		var generatedWith *string
		if sk.GeneratedWith != "" {
			generatedWith = &sk.GeneratedWith
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO skills (name, description, version, ecosystem, license, generated_with, path, body, indexed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sk.Name, sk.Description, sk.Version, sk.Ecosystem, sk.License, generatedWith, sk.Path, sk.Body, now); err != nil {
			return errors.Wrapf(err, "failed to insert skill %s", sk.Name)
		}

		for i, sec := range sk.Sections {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO skill_sections (skill_name, title, position, line)
				VALUES (?, ?, ?, ?)
			`, sk.Name, sec.Title, i, sec.Line); err != nil {
				return errors.Wrapf(err, "failed to insert section for %s", sk.Name)
			}
		}

		for _, block := range sk.CodeBlocks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO skill_code_blocks (skill_name, language, content, line)
				VALUES (?, ?, ?, ?)
			`, sk.Name, block.Language, block.Content, block.Line); err != nil {
				return errors.Wrapf(err, "failed to insert code block for %s", sk.Name)
			}
		}
	}

	return tx.Commit()
}

// Get returns one indexed skill by name.
func (s *Store) Get(ctx context.Context, name string) (*Record, error) {
	var record Record
	err := s.db.GetContext(ctx, &record, "SELECT * FROM skills WHERE name = ?", name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get skill %s", name)
	}
	return &record, nil
}

// List returns all indexed skills ordered by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	var records []Record
	err := s.db.SelectContext(ctx, &records, "SELECT * FROM skills ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list skills")
	}
	return records, nil
}

// Search matches the query against skill names, descriptions, section titles
// and body text, case-insensitively.
func (s *Store) Search(ctx context.Context, query string) ([]Record, error) {
	pattern := "%" + query + "%"

	var records []Record
	err := s.db.SelectContext(ctx, &records, `
		SELECT DISTINCT skills.* FROM skills
		LEFT JOIN skill_sections ON skill_sections.skill_name = skills.name
		WHERE skills.name LIKE ? COLLATE NOCASE
		   OR skills.description LIKE ? COLLATE NOCASE
		   OR skill_sections.title LIKE ? COLLATE NOCASE
		   OR skills.body LIKE ? COLLATE NOCASE
		ORDER BY skills.name
	`, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search skills for %q", query)
	}
	return records, nil
}

// Sections returns the indexed section titles of a skill in body order.
func (s *Store) Sections(ctx context.Context, name string) ([]string, error) {
	var titles []string
	err := s.db.SelectContext(ctx, &titles, `
		SELECT title FROM skill_sections WHERE skill_name = ? ORDER BY position
	`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get sections for %s", name)
	}
	return titles, nil
}

// RecordLintRun persists a lint report summary.
func (s *Store) RecordLintRun(ctx context.Context, report *lint.Report) error {
	findings, err := json.Marshal(report.Findings)
	if err != nil {
		return errors.Wrap(err, "failed to marshal findings")
	}

	errorCount, warningCount := report.Counts()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lint_runs (id, checked_files, error_count, warning_count, findings, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.ID, report.CheckedFiles, errorCount, warningCount, string(findings), time.Now().UTC())
	return errors.Wrap(err, "failed to record lint run")
}

// ListLintRuns returns stored lint runs, newest first.
func (s *Store) ListLintRuns(ctx context.Context) ([]LintRunRecord, error) {
	var runs []LintRunRecord
	err := s.db.SelectContext(ctx, &runs, "SELECT * FROM lint_runs ORDER BY created_at DESC")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list lint runs")
	}
	return runs, nil
}
