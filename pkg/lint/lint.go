// Package lint implements the structural linter for skill documents. It
// checks the corpus conventions: parseable frontmatter with the required
// keys, terminated code fences, scannable python examples, and the expected
// body section order.
package lint

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/SkillDoAI/skilldo/pkg/corpus"
	"github.com/SkillDoAI/skilldo/pkg/logger"
)

// Severity classifies a finding.
type Severity string

const (
	// SeverityError marks findings that break the corpus contract.
	SeverityError Severity = "error"
	// SeverityWarning marks findings that deviate from convention.
	SeverityWarning Severity = "warning"
)

// Finding is a single linter result.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// Report is the outcome of one linter run over the corpus.
type Report struct {
	ID           string    `json:"id"`
	CheckedFiles int       `json:"checked_files"`
	Findings     []Finding `json:"findings"`
	StartedAt    time.Time `json:"started_at"`
}

// Counts returns the number of error and warning findings.
func (r *Report) Counts() (errorCount, warningCount int) {
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			errorCount++
		case SeverityWarning:
			warningCount++
		}
	}
	return errorCount, warningCount
}

// HasErrors reports whether any error-severity finding exists.
func (r *Report) HasErrors() bool {
	errorCount, _ := r.Counts()
	return errorCount > 0
}

// Err aggregates error-severity findings into a single error, or nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			result = multierror.Append(result, errors.Errorf("%s:%d: %s (%s)", f.Path, f.Line, f.Message, f.Rule))
		}
	}
	return result.ErrorOrNil()
}

// Linter runs file and corpus rules over discovered skill documents.
type Linter struct {
	discovery *corpus.Discovery
}

// New creates a linter over the given corpus discovery.
func New(discovery *corpus.Discovery) *Linter {
	return &Linter{discovery: discovery}
}

// Run lints every discovered skill file and applies corpus-wide rules.
func (l *Linter) Run(ctx context.Context) (*Report, error) {
	paths, err := l.discovery.DiscoverPaths()
	if err != nil {
		return nil, errors.Wrap(err, "failed to discover skill files")
	}

	report := &Report{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}

	seenNames := map[string]string{}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		content, err := os.ReadFile(path)
		if err != nil {
			report.Findings = append(report.Findings, Finding{
				Rule:     "file/read",
				Severity: SeverityError,
				Path:     path,
				Message:  err.Error(),
			})
			continue
		}

		report.CheckedFiles++
		findings := LintFile(path, content)
		report.Findings = append(report.Findings, findings...)

		if name := parsedName(path, content); name != "" {
			if prev, dup := seenNames[name]; dup {
				report.Findings = append(report.Findings, Finding{
					Rule:     "corpus/duplicate-name",
					Severity: SeverityError,
					Path:     path,
					Message:  "duplicate skill name '" + name + "', first defined in " + prev,
				})
			} else {
				seenNames[name] = path
			}
		}
	}

	errorCount, warningCount := report.Counts()
	logger.G(ctx).WithField("files", report.CheckedFiles).
		WithField("errors", errorCount).
		WithField("warnings", warningCount).
		Debug("lint run completed")

	return report, nil
}
