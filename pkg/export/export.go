// Package export renders the corpus into machine-friendly artifacts: an
// llms.txt index for retrieval/prompting systems and a JSON metadata dump.
package export

import (
	"bytes"
	"encoding/json"
	"sort"
	"text/template"

	"github.com/pkg/errors"

	"github.com/SkillDoAI/skilldo/pkg/skill"
)

const llmsTxtTemplate = `# {{ .Title }}

> {{ .Summary }}

## Skills
{{ range .Skills }}
- [{{ .Name }}]({{ .Path }}): {{ .Description }}{{ end }}
`

// Options controls export output.
type Options struct {
	Title   string
	Summary string
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		Title:   "Skill Corpus",
		Summary: "Skill documents describing usage patterns, pitfalls, and API references for third-party libraries.",
	}
}

type llmsTxtEntry struct {
	Name        string
	Path        string
	Description string
}

type llmsTxtData struct {
	Title   string
	Summary string
	Skills  []llmsTxtEntry
}

// LlmsTxt renders an llms.txt index of the corpus, skills sorted by name.
func LlmsTxt(skills map[string]*skill.Skill, opts Options) (string, error) {
	tmpl, err := template.New("llmstxt").Parse(llmsTxtTemplate)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse llms.txt template")
	}

	data := llmsTxtData{
		Title:   opts.Title,
		Summary: opts.Summary,
	}
	for _, s := range sorted(skills) {
		data.Skills = append(data.Skills, llmsTxtEntry{
			Name:        s.Name,
			Path:        s.Path,
			Description: s.Description,
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "failed to render llms.txt")
	}
	return buf.String(), nil
}

type jsonEntry struct {
	skill.Metadata
	Path     string   `json:"path"`
	Sections []string `json:"sections,omitempty"`
}

// JSON renders corpus metadata as indented JSON for external tooling.
func JSON(skills map[string]*skill.Skill) ([]byte, error) {
	entries := make([]jsonEntry, 0, len(skills))
	for _, s := range sorted(skills) {
		entry := jsonEntry{
			Metadata: s.Metadata,
			Path:     s.Path,
		}
		for _, sec := range s.Sections {
			entry.Sections = append(entry.Sections, sec.Title)
		}
		entries = append(entries, entry)
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal corpus metadata")
	}
	return out, nil
}

func sorted(skills map[string]*skill.Skill) []*skill.Skill {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]*skill.Skill, 0, len(names))
	for _, name := range names {
		result = append(result, skills[name])
	}
	return result
}
