// Package skill defines the skill document model and its parser. A skill
// document is a Markdown file with YAML frontmatter that summarizes idiomatic
// usage, pitfalls, and API surface of one third-party library. Documents are
// named <library>-SKILL.md in flat corpora, or live as SKILL.md inside a
// per-skill directory.
package skill

import (
	"path/filepath"
	"strings"
)

const (
	// FileSuffix is the filename suffix for flat corpus documents.
	FileSuffix = "-SKILL.md"
	// DirFileName is the document filename inside a per-skill directory.
	DirFileName = "SKILL.md"
)

// Metadata is the YAML frontmatter of a skill document.
type Metadata struct {
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description" json:"description"`
	Version       string `yaml:"version" json:"version"`
	Ecosystem     string `yaml:"ecosystem" json:"ecosystem"`
	License       string `yaml:"license" json:"license"`
	GeneratedWith string `yaml:"generated_with,omitempty" json:"generated_with,omitempty"`
}

// Section is a level-2 heading in the document body.
type Section struct {
	Title string // Heading text, e.g. "Core Patterns"
	Line  int    // 1-based line of the heading in the file
}

// CodeBlock is a fenced code block in the document body.
type CodeBlock struct {
	Language string // Fence info string, e.g. "python"
	Content  string
	Line     int // 1-based line of the opening fence
}

// Skill is a parsed skill document.
type Skill struct {
	Metadata
	Path       string      // Full path to the source file
	Body       string      // Markdown body without the frontmatter block
	Sections   []Section   // Level-2 headings in order of appearance
	CodeBlocks []CodeBlock // Fenced code blocks in order of appearance
}

// Section returns the first section with the given title and whether it exists.
func (s *Skill) Section(title string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Title == title {
			return sec, true
		}
	}
	return Section{}, false
}

// PythonBlocks returns the code blocks whose fence is labeled python.
func (s *Skill) PythonBlocks() []CodeBlock {
	var blocks []CodeBlock
	for _, b := range s.CodeBlocks {
		if strings.EqualFold(b.Language, "python") {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// LibraryFromFilename derives the library name from a flat corpus filename.
// It returns "" when the filename does not follow the <library>-SKILL.md
// convention.
func LibraryFromFilename(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, FileSuffix) {
		return ""
	}
	return strings.TrimSuffix(base, FileSuffix)
}

// IsSkillFile reports whether the filename follows either document naming
// convention.
func IsSkillFile(path string) bool {
	base := filepath.Base(path)
	return base == DirFileName || (strings.HasSuffix(base, FileSuffix) && base != FileSuffix)
}
