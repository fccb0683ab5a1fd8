package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontmatter(t *testing.T) {
	out, err := Frontmatter()
	require.NoError(t, err)

	var s map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &s))

	assert.Equal(t, "Skill document frontmatter", s["title"])

	props, ok := s["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"name", "description", "version", "ecosystem", "license", "generated_with"} {
		assert.Contains(t, props, key)
	}

	required, ok := s["required"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, required, "name")
	assert.Contains(t, required, "license")
	assert.NotContains(t, required, "generated_with")
}
