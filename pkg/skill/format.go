package skill

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// canonicalKeys is the frontmatter key order the corpus convention expects.
var canonicalKeys = []string{"name", "description", "version", "ecosystem", "license", "generated_with"}

// Normalize rewrites a document's frontmatter into canonical key order,
// leaving the body untouched. Keys outside the convention are preserved
// after the canonical ones, sorted by name.
func Normalize(content []byte) ([]byte, error) {
	end, ok := frontmatterEnd(content)
	if !ok {
		return nil, errors.New("document has no complete frontmatter block")
	}

	lines := strings.Split(string(content), "\n")
	raw := strings.Join(lines[1:end], "\n")

	var fields map[string]interface{}
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, errors.Wrap(err, "failed to parse frontmatter YAML")
	}

	var sb strings.Builder
	sb.WriteString("---\n")

	emit := func(key string) error {
		value, exists := fields[key]
		if !exists {
			return nil
		}
		entry, err := yaml.Marshal(map[string]interface{}{key: value})
		if err != nil {
			return errors.Wrapf(err, "failed to marshal frontmatter key %s", key)
		}
		sb.Write(entry)
		delete(fields, key)
		return nil
	}

	for _, key := range canonicalKeys {
		if err := emit(key); err != nil {
			return nil, err
		}
	}

	extras := make([]string, 0, len(fields))
	for key := range fields {
		extras = append(extras, key)
	}
	sort.Strings(extras)
	for _, key := range extras {
		if err := emit(key); err != nil {
			return nil, err
		}
	}

	sb.WriteString("---\n")
	sb.WriteString(strings.Join(lines[end+1:], "\n"))

	return []byte(sb.String()), nil
}
