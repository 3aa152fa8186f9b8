package driver

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"eagle/interpreter-go/pkg/ast"
)

// LoadError records a unit file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("driver: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader decodes syntax-tree files, caching units by absolute path.
type Loader struct {
	logger *slog.Logger
	units  map[string]*ast.CompilationUnit
	errs   []error
}

func NewLoader(opts ...Option) *Loader {
	s := newSettings(opts)
	return &Loader{logger: s.logger, units: make(map[string]*ast.CompilationUnit)}
}

// IsUnitFile reports whether path has a decodable extension.
func IsUnitFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yml", ".yaml":
		return filepath.Base(path) != ManifestName
	}
	return false
}

// Load decodes one unit file. A unit without a path takes the file's path.
func (l *Loader) Load(path string) (*ast.CompilationUnit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, l.record(path, err)
	}
	if unit, ok := l.units[abs]; ok {
		return unit, nil
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, l.record(path, err)
	}
	var unit *ast.CompilationUnit
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".json":
		unit, err = ast.DecodeJSON(data)
	case ".yml", ".yaml":
		unit, err = ast.DecodeYAML(data)
	default:
		err = fmt.Errorf("unsupported unit extension %q", filepath.Ext(abs))
	}
	if err != nil {
		return nil, l.record(path, err)
	}
	if unit.Path == "" {
		unit.Path = path
	}
	l.units[abs] = unit
	l.logger.Debug("loaded unit", "path", path, "members", len(unit.Members))
	return unit, nil
}

func (l *Loader) record(path string, err error) error {
	loadErr := &LoadError{Path: path, Err: err}
	l.errs = append(l.errs, loadErr)
	return loadErr
}

// Errors returns every failure recorded since the loader was created.
func (l *Loader) Errors() []error {
	return append([]error(nil), l.errs...)
}

// LoadProject loads dependency units first, then the manifest's own units.
// Every file is attempted; failures are joined into the returned error.
func (l *Loader) LoadProject(m *Manifest, deps []LockedDependency) ([]*ast.CompilationUnit, error) {
	var (
		units []*ast.CompilationUnit
		errs  []error
	)
	for _, dep := range deps {
		files, err := dependencyFiles(dep.Dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("driver: dependency %q: %w", dep.Name, err))
			continue
		}
		loaded, err := l.loadAll(files)
		units = append(units, loaded...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	files, err := projectFiles(m)
	if err != nil {
		return nil, err
	}
	loaded, err := l.loadAll(files)
	units = append(units, loaded...)
	if err != nil {
		errs = append(errs, err)
	}
	return units, errors.Join(errs...)
}

func (l *Loader) loadAll(files []string) ([]*ast.CompilationUnit, error) {
	var (
		units []*ast.CompilationUnit
		errs  []error
	)
	for _, file := range files {
		unit, err := l.Load(file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		units = append(units, unit)
	}
	return units, errors.Join(errs...)
}

// projectFiles expands units globs in order, then appends entry. Each file
// appears once.
func projectFiles(m *Manifest) ([]string, error) {
	root := m.Dir()
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, pattern := range m.Units {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("driver: units pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(pattern, "*?[") {
			matches = []string{pattern}
		}
		sort.Strings(matches)
		for _, match := range matches {
			add(match)
		}
	}
	if m.Entry != "" {
		entry := m.Entry
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(root, entry)
		}
		add(entry)
	}
	return files, nil
}

// dependencyFiles lists a dependency's units: its own manifest's when it
// has eagle.yml, otherwise every unit file at the top of dir.
func dependencyFiles(dir string) ([]string, error) {
	manifestPath := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		m, err := LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		return projectFiles(m)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsUnitFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
