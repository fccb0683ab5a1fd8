// Package schema generates the JSON Schema of the skill frontmatter, for
// editor integration and CI of corpus repositories.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	"github.com/SkillDoAI/skilldo/pkg/skill"
)

// Frontmatter returns the JSON Schema for skill document frontmatter as
// indented JSON.
func Frontmatter() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		// Frontmatter is a flat document; no need for $defs indirection.
		ExpandedStruct: true,
	}

	s := reflector.Reflect(&skill.Metadata{})
	s.Title = "Skill document frontmatter"
	s.Description = "YAML frontmatter of a <library>-SKILL.md document."

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal frontmatter schema")
	}
	return out, nil
}
