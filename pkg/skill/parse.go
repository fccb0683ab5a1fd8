package skill

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	// ErrNoFrontmatter indicates a document without a frontmatter block.
	ErrNoFrontmatter = errors.New("missing frontmatter")
	// ErrUnterminatedFrontmatter indicates a frontmatter block opened with
	// --- but never closed.
	ErrUnterminatedFrontmatter = errors.New("unterminated frontmatter block")
)

// ParseFile reads and parses a skill document from disk.
func ParseFile(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}
	return Parse(path, content)
}

// Parse parses a skill document. It fails on structurally broken documents
// (missing or unterminated frontmatter, invalid YAML); missing metadata keys
// are left empty for the linter to report.
func Parse(path string, content []byte) (*Skill, error) {
	if _, ok := frontmatterEnd(content); !ok {
		if bytes.HasPrefix(content, []byte("---")) {
			return nil, errors.Wrapf(ErrUnterminatedFrontmatter, "%s", path)
		}
		return nil, errors.Wrapf(ErrNoFrontmatter, "%s", path)
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	pctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(content), parser.WithContext(pctx))

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid frontmatter YAML in %s", path)
	}
	if metaData == nil {
		return nil, errors.Wrapf(ErrNoFrontmatter, "%s", path)
	}

	s := &Skill{
		Metadata: metadataFromMap(metaData),
		Path:     path,
		Body:     extractBody(string(content)),
	}

	lines := newLineIndex(content)
	if err := collectStructure(doc, content, lines, s); err != nil {
		return nil, err
	}

	return s, nil
}

// metadataFromMap extracts known frontmatter fields, normalizing scalar
// values that YAML decodes as numbers (version: 3.13 is a float to YAML).
func metadataFromMap(m map[string]interface{}) Metadata {
	return Metadata{
		Name:          metaString(m["name"]),
		Description:   metaString(m["description"]),
		Version:       metaString(m["version"]),
		Ecosystem:     metaString(m["ecosystem"]),
		License:       metaString(m["license"]),
		GeneratedWith: metaString(m["generated_with"]),
	}
}

func metaString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func collectStructure(doc ast.Node, source []byte, lines *lineIndex, s *Skill) error {
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level != 2 {
				return ast.WalkContinue, nil
			}
			title, offset := headingText(node, source)
			s.Sections = append(s.Sections, Section{
				Title: title,
				Line:  lines.lineFor(offset),
			})

		case *ast.FencedCodeBlock:
			block := CodeBlock{
				Language: string(node.Language(source)),
				Content:  segmentText(node.Lines(), source),
			}
			if node.Info != nil {
				// Info sits on the opening fence line.
				block.Line = lines.lineFor(node.Info.Segment.Start)
			} else if node.Lines().Len() > 0 {
				block.Line = lines.lineFor(node.Lines().At(0).Start) - 1
			}
			s.CodeBlocks = append(s.CodeBlocks, block)
		}

		return ast.WalkContinue, nil
	})
}

// headingText gathers the literal text of a heading and the byte offset of
// its first text segment.
func headingText(h *ast.Heading, source []byte) (string, int) {
	var sb strings.Builder
	offset := -1

	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			if offset < 0 {
				offset = t.Segment.Start
			}
			sb.Write(t.Segment.Value(source))
		}
	}

	if offset < 0 {
		offset = 0
	}
	return strings.TrimSpace(sb.String()), offset
}

func segmentText(segments *text.Segments, source []byte) string {
	var sb strings.Builder
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

// frontmatterEnd returns the index of the line that closes the frontmatter
// block and whether a complete block exists.
func frontmatterEnd(content []byte) (int, bool) {
	lines := strings.Split(string(content), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return 0, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i, true
		}
	}
	return 0, false
}

// extractBody strips the frontmatter block and returns the markdown body.
func extractBody(content string) string {
	lines := strings.Split(content, "\n")
	end, ok := frontmatterEnd([]byte(content))
	if !ok {
		return content
	}
	return strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) lineFor(offset int) int {
	n := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	return n
}
