package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkillDoAI/skilldo/pkg/corpus"
)

const cleanDoc = `---
name: requests
description: HTTP for humans
version: 2.32.5
ecosystem: python
license: Apache-2.0
---

# requests

## Imports

` + "```python" + `
import requests
` + "```" + `

## Core Patterns

Use a Session for connection pooling.

## Pitfalls

Always set a timeout.

## References

- https://requests.readthedocs.io
`

func findingRules(findings []Finding) []string {
	rules := make([]string, 0, len(findings))
	for _, f := range findings {
		rules = append(rules, f.Rule)
	}
	return rules
}

func TestLintFileClean(t *testing.T) {
	findings := LintFile("requests-SKILL.md", []byte(cleanDoc))
	assert.Empty(t, findings)
}

func TestLintFileMissingKeys(t *testing.T) {
	doc := `---
name: keras
description: Deep learning API
---

# keras
`
	findings := LintFile("keras-SKILL.md", []byte(doc))
	require.Len(t, findings, 3)
	for _, f := range findings {
		assert.Equal(t, "frontmatter/required", f.Rule)
		assert.Equal(t, SeverityError, f.Severity)
	}
}

func TestLintFileUnterminatedFrontmatter(t *testing.T) {
	doc := "---\nname: aiohttp\ndescription: Async HTTP\n\n# aiohttp\n"
	findings := LintFile("aiohttp-SKILL.md", []byte(doc))
	require.NotEmpty(t, findings)
	assert.Contains(t, findingRules(findings), "frontmatter/parse")
}

func TestLintFileFilenameMismatch(t *testing.T) {
	doc := `---
name: httpx
description: Next-generation HTTP client
version: 0.28.1
ecosystem: python
license: BSD-3-Clause
---

# httpx
`
	findings := LintFile("requests-SKILL.md", []byte(doc))
	require.Len(t, findings, 1)
	assert.Equal(t, "frontmatter/filename", findings[0].Rule)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
}

func TestLintFileUnterminatedFence(t *testing.T) {
	doc := `---
name: scipy
description: Scientific computing
version: 1.16.0
ecosystem: python
license: BSD-3-Clause
---

# scipy

## Core Patterns

` + "```python" + `
from scipy import optimize
`
	findings := LintFile("scipy-SKILL.md", []byte(doc))
	assert.Contains(t, findingRules(findings), "fence/terminated")
}

func TestLintFileBrokenPython(t *testing.T) {
	doc := `---
name: torch
description: Tensors and dynamic neural networks
version: 2.9.0
ecosystem: python
license: BSD-3-Clause
---

# torch

## Core Patterns

` + "```python" + `
model = torch.nn.Linear(10, 1
` + "```" + `
`
	findings := LintFile("torch-SKILL.md", []byte(doc))
	require.Len(t, findings, 1)
	assert.Equal(t, "fence/python", findings[0].Rule)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, 14, findings[0].Line)
}

func TestLintFileEmptyPythonBlock(t *testing.T) {
	doc := `---
name: rich
description: Rich terminal output
version: 14.3.0
ecosystem: python
license: MIT
---

# rich

## Imports

` + "```python" + `
` + "```" + `
`
	findings := LintFile("rich-SKILL.md", []byte(doc))
	require.Len(t, findings, 1)
	assert.Equal(t, "fence/python", findings[0].Rule)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
}

func TestLintFileSectionOrder(t *testing.T) {
	doc := `---
name: flask
description: Web micro-framework
version: 3.1.0
ecosystem: python
license: BSD-3-Clause
---

# flask

## Pitfalls

Avoid app factories returning globals.

## Imports

` + "```python" + `
from flask import Flask
` + "```" + `

## Custom Notes

Unknown sections are fine anywhere.
`
	findings := LintFile("flask-SKILL.md", []byte(doc))
	require.Len(t, findings, 1)
	assert.Equal(t, "section/order", findings[0].Rule)
	assert.Contains(t, findings[0].Message, "'Imports' appears after 'Pitfalls'")
}

func TestLintFileMigrationSectionMatchesByPrefix(t *testing.T) {
	doc := `---
name: pydantic
description: Data validation with type hints
version: 2.12.3
ecosystem: python
license: MIT
---

# pydantic

## Pitfalls

Validators changed in v2.

## Migration from v1

Use model_validate instead of parse_obj.

## API Reference

BaseModel, Field, field_validator.
`
	findings := LintFile("pydantic-SKILL.md", []byte(doc))
	assert.Empty(t, findings)
}

func TestRunCorpus(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "requests-SKILL.md"), []byte(cleanDoc), 0o644))

	dup := `---
name: requests
description: A duplicate
version: 1.0.0
ecosystem: python
license: MIT
---

# duplicate
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "zeta-SKILL.md"), []byte(dup), 0o644))

	discovery, err := corpus.NewDiscovery(corpus.WithCorpusDirs(tmpDir))
	require.NoError(t, err)

	report, err := New(discovery).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 2, report.CheckedFiles)
	assert.Contains(t, findingRules(report.Findings), "corpus/duplicate-name")

	// zeta-SKILL.md also trips the filename rule for name 'requests'.
	errorCount, warningCount := report.Counts()
	assert.Equal(t, 1, errorCount)
	assert.Equal(t, 1, warningCount)
	assert.True(t, report.HasErrors())
	assert.Error(t, report.Err())
}

func TestRunCleanCorpusNoError(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "requests-SKILL.md"), []byte(cleanDoc), 0o644))

	discovery, err := corpus.NewDiscovery(corpus.WithCorpusDirs(tmpDir))
	require.NoError(t, err)

	report, err := New(discovery).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.HasErrors())
	assert.NoError(t, report.Err())
}
