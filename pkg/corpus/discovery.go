// Package corpus discovers and loads skill documents from configured
// directories. Two layouts are supported: a flat corpus of
// <library>-SKILL.md files, and per-skill directories each holding a
// SKILL.md.
package corpus

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/SkillDoAI/skilldo/pkg/skill"
)

// Discovery finds skill documents in configured directories.
type Discovery struct {
	corpusDirs      []string
	includePatterns []string
}

// Option is a function that configures a Discovery.
type Option func(*Discovery) error

// WithCorpusDirs sets custom corpus directories.
func WithCorpusDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		if len(dirs) == 0 {
			return errors.New("at least one corpus directory must be specified")
		}
		d.corpusDirs = dirs
		return nil
	}
}

// WithDefaultDirs initializes with default corpus directories.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.corpusDirs = []string{
			"./skills", // Repo-local corpus (highest precedence)
			filepath.Join(homeDir, ".skilldo", "skills"), // User-global corpus
		}
		return nil
	}
}

// WithIncludePatterns restricts flat-layout discovery to filenames matching
// any of the given doublestar patterns, e.g. "py*-SKILL.md".
func WithIncludePatterns(patterns ...string) Option {
	return func(d *Discovery) error {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return errors.Errorf("invalid include pattern: %s", p)
			}
		}
		d.includePatterns = patterns
		return nil
	}
}

// NewDiscovery creates a new corpus discovery instance.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(d); err != nil {
			return nil, err
		}
		return d, nil
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if len(d.corpusDirs) == 0 {
		if err := WithDefaultDirs()(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Dirs returns the configured corpus directories in precedence order.
func (d *Discovery) Dirs() []string {
	return d.corpusDirs
}

// DiscoverSkills loads all skill documents from the configured directories.
// The first occurrence of a name wins; later directories cannot shadow
// earlier ones. Documents that fail to parse or carry no name are skipped;
// the linter reports those.
func (d *Discovery) DiscoverSkills() (map[string]*skill.Skill, error) {
	skills := make(map[string]*skill.Skill)

	for _, dir := range d.corpusDirs {
		d.discoverFromDir(dir, skills)
	}

	return skills, nil
}

// DiscoverPaths returns the paths of all candidate skill files, including
// ones that fail to parse. Lint operates on paths so broken documents are
// still reported.
func (d *Discovery) DiscoverPaths() ([]string, error) {
	var paths []string

	for _, dir := range d.corpusDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			entryPath := filepath.Join(dir, entry.Name())

			if entry.IsDir() {
				nested := filepath.Join(entryPath, skill.DirFileName)
				if _, err := os.Stat(nested); err == nil {
					paths = append(paths, nested)
				}
				continue
			}

			if skill.LibraryFromFilename(entry.Name()) == "" {
				continue
			}
			if !d.includes(entry.Name()) {
				continue
			}
			paths = append(paths, entryPath)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func (d *Discovery) discoverFromDir(dir string, skills map[string]*skill.Skill) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		var docPath string
		switch {
		case entry.IsDir():
			docPath = filepath.Join(entryPath, skill.DirFileName)
		case skill.LibraryFromFilename(entry.Name()) != "" && d.includes(entry.Name()):
			docPath = entryPath
		default:
			continue
		}

		s, err := skill.ParseFile(docPath)
		if err != nil || s.Name == "" {
			continue
		}

		if _, exists := skills[s.Name]; !exists {
			skills[s.Name] = s
		}
	}
}

func (d *Discovery) includes(name string) bool {
	if len(d.includePatterns) == 0 {
		return true
	}
	for _, p := range d.includePatterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// GetSkill returns a specific skill by name.
func (d *Discovery) GetSkill(name string) (*skill.Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	s, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return s, nil
}

// ListNames returns a sorted list of all discovered skill names.
func (d *Discovery) ListNames() ([]string, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// FilterByPatterns filters skills by name patterns, e.g. "py*" or "torch".
// An empty pattern list returns all skills.
func FilterByPatterns(skills map[string]*skill.Skill, patterns []string) (map[string]*skill.Skill, error) {
	if len(patterns) == 0 {
		return skills, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid skill name pattern: %s", p)
		}
		globs = append(globs, g)
	}

	filtered := make(map[string]*skill.Skill)
	for name, s := range skills {
		for _, g := range globs {
			if g.Match(name) {
				filtered[name] = s
				break
			}
		}
	}
	return filtered, nil
}
