package skill

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	doc := `---
license: MIT
name: rich
ecosystem: python
version: "14.3.0"
description: Rich text and beautiful formatting in the terminal
---

# rich

Body stays as-is.
`
	normalized, err := Normalize([]byte(doc))
	require.NoError(t, err)

	text := string(normalized)
	nameIdx := strings.Index(text, "name:")
	descIdx := strings.Index(text, "description:")
	versionIdx := strings.Index(text, "version:")
	licenseIdx := strings.Index(text, "license:")

	assert.True(t, nameIdx < descIdx)
	assert.True(t, descIdx < versionIdx)
	assert.True(t, versionIdx < licenseIdx)
	assert.Contains(t, text, "Body stays as-is.")
}

func TestNormalizePreservesExtraKeys(t *testing.T) {
	doc := `---
name: flask
description: Web micro-framework
version: 3.1.0
ecosystem: python
license: BSD-3-Clause
maintainer: pallets
---

# flask
`
	normalized, err := Normalize([]byte(doc))
	require.NoError(t, err)
	assert.Contains(t, string(normalized), "maintainer: pallets")

	licenseIdx := strings.Index(string(normalized), "license:")
	maintainerIdx := strings.Index(string(normalized), "maintainer:")
	assert.True(t, licenseIdx < maintainerIdx)
}

func TestNormalizeIdempotent(t *testing.T) {
	doc := `---
name: typer
description: CLI building on top of type hints
version: 0.21.1
ecosystem: python
license: MIT
---

# typer
`
	once, err := Normalize([]byte(doc))
	require.NoError(t, err)
	twice, err := Normalize(once)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestNormalizeNoFrontmatter(t *testing.T) {
	_, err := Normalize([]byte("# just a body\n"))
	assert.Error(t, err)
}
