package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ManifestName = "eagle.yml"
	LockfileName = "eagle.lock"
)

// ErrManifestNotFound is returned by FindManifest when no eagle.yml exists
// in the directory or any of its parents.
var ErrManifestNotFound = errors.New("driver: eagle.yml not found")

// Manifest represents the parsed contents of eagle.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Entry        string
	Units        []string
	LogLevel     slog.Level
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes a dependency descriptor in the manifest.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "driver: invalid manifest"
	}
	var b strings.Builder
	b.WriteString("driver: manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Entry        string        `yaml:"entry"`
	Units        stringList    `yaml:"units"`
	LogLevel     string        `yaml:"log_level"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type stringList []string

type dependencyMap map[string]*DependencySpec

// FindManifest walks upward from dir until it finds eagle.yml.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("driver: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("driver: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrManifestNotFound
		}
		abs = parent
	}
}

// LoadManifest parses eagle.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("driver: empty manifest path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("driver: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("driver: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("driver: %s is empty", absPath)
		}
		return nil, fmt.Errorf("driver: parse %s: %w", absPath, err)
	}

	manifest, issues := raw.toManifest(absPath)
	issues = append(issues, manifest.validate()...)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return manifest, nil
}

// Dir is the project root, the directory holding eagle.yml.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// DependencyNames returns dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var dependencyNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

func (m *Manifest) validate() []string {
	var issues []string
	if m.Name == "" {
		issues = append(issues, "name must be provided")
	}
	if m.Entry == "" && len(m.Units) == 0 {
		issues = append(issues, "entry or units must be provided")
	}
	for _, name := range m.DependencyNames() {
		if !dependencyNamePattern.MatchString(name) {
			issues = append(issues, fmt.Sprintf("dependency %q has an invalid name", name))
		}
		for _, issue := range m.Dependencies[name].validate() {
			issues = append(issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	return issues
}

func (d *DependencySpec) validate() []string {
	var issues []string
	switch {
	case d.Git != "" && d.Path != "":
		issues = append(issues, "git and path are mutually exclusive")
	case d.Git == "" && d.Path == "":
		issues = append(issues, "one of git or path must be provided")
	}
	refs := 0
	for _, ref := range []string{d.Rev, d.Tag, d.Branch} {
		if ref != "" {
			refs++
		}
	}
	if refs > 1 {
		issues = append(issues, "only one of rev, tag, or branch may be set")
	}
	if refs > 0 && d.Git == "" {
		issues = append(issues, "rev, tag, and branch require git")
	}
	return issues
}

// IsGit reports whether the dependency is fetched from a repository.
func (d *DependencySpec) IsGit() bool {
	return d != nil && d.Git != ""
}

func (mf manifestFile) toManifest(path string) (*Manifest, []string) {
	var issues []string
	level := slog.LevelInfo
	if text := strings.TrimSpace(mf.LogLevel); text != "" {
		if err := level.UnmarshalText([]byte(text)); err != nil {
			issues = append(issues, fmt.Sprintf("log_level %q is not a level", text))
		}
	}
	deps := make(map[string]*DependencySpec, len(mf.Dependencies))
	for name, dep := range mf.Dependencies {
		if dep == nil {
			continue
		}
		copy := *dep
		deps[name] = &copy
	}
	return &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Entry:        strings.TrimSpace(mf.Entry),
		Units:        mf.Units,
		LogLevel:     level,
		Dependencies: deps,
	}, issues
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("driver: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("driver: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("driver: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(valNode); err != nil {
			return fmt.Errorf("driver: dependency %q: %w", key, err)
		}
		result[key] = &dep
	}
	*dm = result
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		// A bare string is shorthand for a local path.
		*d = DependencySpec{Path: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		for i := 0; i < len(value.Content); i += 2 {
			switch key := value.Content[i].Value; key {
			case "git", "rev", "tag", "branch", "path":
			default:
				return fmt.Errorf("unknown field %q", key)
			}
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

var unsafeSegment = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// sanitizeSegment makes a dependency name safe to use as a directory name.
func sanitizeSegment(name string) string {
	cleaned := unsafeSegment.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return "_"
	}
	return cleaned
}
