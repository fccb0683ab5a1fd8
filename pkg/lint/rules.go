package lint

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/SkillDoAI/skilldo/pkg/lint/pysrc"
	"github.com/SkillDoAI/skilldo/pkg/skill"
)

// canonicalSections is the conventional body section order. "Migration from"
// matches by prefix since the heading names the source version.
var canonicalSections = []string{
	"Imports",
	"Core Patterns",
	"Configuration",
	"Pitfalls",
	"References",
	"Migration from",
	"API Reference",
	"Current Library State",
}

// requiredKeys are the frontmatter keys every document must carry.
var requiredKeys = []string{"name", "description", "version", "ecosystem", "license"}

// LintFile runs all per-file rules over one document.
func LintFile(path string, content []byte) []Finding {
	var findings []Finding

	findings = append(findings, checkFences(path, content)...)

	s, err := skill.Parse(path, content)
	if err != nil {
		findings = append(findings, Finding{
			Rule:     "frontmatter/parse",
			Severity: SeverityError,
			Path:     path,
			Line:     1,
			Message:  err.Error(),
		})
		return findings
	}

	findings = append(findings, checkRequiredKeys(path, s)...)
	findings = append(findings, checkFilename(path, s)...)
	findings = append(findings, checkPythonBlocks(path, s)...)
	findings = append(findings, checkSectionOrder(path, s)...)

	return findings
}

// checkFences verifies every code fence is terminated. An odd number of
// fence marker lines means a fence swallowed the rest of the document.
func checkFences(path string, content []byte) []Finding {
	count := 0
	lastLine := 0

	for i, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			count++
			lastLine = i + 1
		}
	}

	if count%2 != 0 {
		return []Finding{{
			Rule:     "fence/terminated",
			Severity: SeverityError,
			Path:     path,
			Line:     lastLine,
			Message:  "unterminated code fence",
		}}
	}
	return nil
}

func checkRequiredKeys(path string, s *skill.Skill) []Finding {
	values := map[string]string{
		"name":        s.Name,
		"description": s.Description,
		"version":     s.Version,
		"ecosystem":   s.Ecosystem,
		"license":     s.License,
	}

	var findings []Finding
	for _, key := range requiredKeys {
		if values[key] == "" {
			findings = append(findings, Finding{
				Rule:     "frontmatter/required",
				Severity: SeverityError,
				Path:     path,
				Line:     1,
				Message:  fmt.Sprintf("missing required frontmatter key '%s'", key),
			})
		}
	}
	return findings
}

// checkFilename applies only to flat-layout files, whose basename must be
// <name>-SKILL.md.
func checkFilename(path string, s *skill.Skill) []Finding {
	if filepath.Base(path) == skill.DirFileName || s.Name == "" {
		return nil
	}

	library := skill.LibraryFromFilename(path)
	if library == "" || library == s.Name {
		return nil
	}

	return []Finding{{
		Rule:     "frontmatter/filename",
		Severity: SeverityWarning,
		Path:     path,
		Line:     1,
		Message:  fmt.Sprintf("frontmatter name '%s' does not match filename library '%s'", s.Name, library),
	}}
}

func checkPythonBlocks(path string, s *skill.Skill) []Finding {
	var findings []Finding

	for _, block := range s.PythonBlocks() {
		if strings.TrimSpace(block.Content) == "" {
			findings = append(findings, Finding{
				Rule:     "fence/python",
				Severity: SeverityWarning,
				Path:     path,
				Line:     block.Line,
				Message:  "empty python code block",
			})
			continue
		}

		for _, issue := range pysrc.Scan(block.Content) {
			findings = append(findings, Finding{
				Rule:     "fence/python",
				Severity: SeverityError,
				Path:     path,
				Line:     block.Line + issue.Line,
				Message:  issue.Message,
			})
		}
	}
	return findings
}

// checkSectionOrder verifies known sections appear in canonical relative
// order. Unknown sections pass through.
func checkSectionOrder(path string, s *skill.Skill) []Finding {
	var findings []Finding
	lastIndex := -1
	lastTitle := ""

	for _, sec := range s.Sections {
		index := canonicalIndex(sec.Title)
		if index < 0 {
			continue
		}
		if index < lastIndex {
			findings = append(findings, Finding{
				Rule:     "section/order",
				Severity: SeverityWarning,
				Path:     path,
				Line:     sec.Line,
				Message:  fmt.Sprintf("section '%s' appears after '%s'", sec.Title, lastTitle),
			})
			continue
		}
		lastIndex = index
		lastTitle = sec.Title
	}
	return findings
}

func canonicalIndex(title string) int {
	for i, known := range canonicalSections {
		if title == known || (known == "Migration from" && strings.HasPrefix(title, known)) {
			return i
		}
	}
	return -1
}

func parsedName(path string, content []byte) string {
	s, err := skill.Parse(path, content)
	if err != nil {
		return ""
	}
	return s.Name
}
