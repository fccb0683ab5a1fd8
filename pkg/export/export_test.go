package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkillDoAI/skilldo/pkg/skill"
)

func sampleSkills() map[string]*skill.Skill {
	return map[string]*skill.Skill{
		"typer": {
			Metadata: skill.Metadata{
				Name:        "typer",
				Description: "CLI building on top of type hints",
				Version:     "0.21.1",
				Ecosystem:   "python",
				License:     "MIT",
			},
			Path: "skills/typer-SKILL.md",
			Sections: []skill.Section{
				{Title: "Imports"},
				{Title: "Core Patterns"},
			},
		},
		"celery": {
			Metadata: skill.Metadata{
				Name:        "celery",
				Description: "Distributed task queue",
				Version:     "5.6.2",
				Ecosystem:   "python",
				License:     "BSD-3-Clause",
			},
			Path: "skills/celery-SKILL.md",
		},
	}
}

func TestLlmsTxt(t *testing.T) {
	out, err := LlmsTxt(sampleSkills(), DefaultOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Skill Corpus\n"))
	assert.Contains(t, out, "- [celery](skills/celery-SKILL.md): Distributed task queue")
	assert.Contains(t, out, "- [typer](skills/typer-SKILL.md): CLI building on top of type hints")

	// Sorted by name: celery before typer.
	assert.Less(t, strings.Index(out, "[celery]"), strings.Index(out, "[typer]"))
}

func TestLlmsTxtCustomOptions(t *testing.T) {
	opts := Options{Title: "Python Skills", Summary: "Internal corpus."}
	out, err := LlmsTxt(sampleSkills(), opts)
	require.NoError(t, err)
	assert.Contains(t, out, "# Python Skills")
	assert.Contains(t, out, "> Internal corpus.")
}

func TestJSON(t *testing.T) {
	out, err := JSON(sampleSkills())
	require.NoError(t, err)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, "celery", entries[0]["name"])
	assert.Equal(t, "typer", entries[1]["name"])
	assert.Equal(t, "skills/typer-SKILL.md", entries[1]["path"])

	sections, ok := entries[1]["sections"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Imports", "Core Patterns"}, sections)
}

func TestJSONEmptyCorpus(t *testing.T) {
	out, err := JSON(map[string]*skill.Skill{})
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(out))
}
