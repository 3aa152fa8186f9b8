package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const lockSchemaVersion = "1"

// Lockfile records the resolved commit of each git dependency.
type Lockfile struct {
	Path          string            `toml:"-"`
	SchemaVersion string            `toml:"schema_version"`
	Dependencies  map[string]string `toml:"dependencies"`
}

// LoadLockfile reads eagle.lock. A missing file yields an empty lockfile
// bound to path.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("driver: empty lockfile path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("driver: resolve %s: %w", path, err)
	}
	lock := &Lockfile{Path: absPath, SchemaVersion: lockSchemaVersion, Dependencies: map[string]string{}}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lock, nil
		}
		return nil, fmt.Errorf("driver: read %s: %w", absPath, err)
	}
	if err := toml.Unmarshal(data, lock); err != nil {
		return nil, fmt.Errorf("driver: parse %s: %w", absPath, err)
	}
	if lock.SchemaVersion != lockSchemaVersion {
		return nil, fmt.Errorf("driver: %s has unsupported schema_version %q", absPath, lock.SchemaVersion)
	}
	if lock.Dependencies == nil {
		lock.Dependencies = map[string]string{}
	}
	return lock, nil
}

// WriteLockfile persists the lockfile to its Path.
func WriteLockfile(lock *Lockfile) error {
	if lock == nil {
		return fmt.Errorf("driver: lockfile is nil")
	}
	if lock.Path == "" {
		return fmt.Errorf("driver: lockfile path is empty")
	}
	if lock.SchemaVersion == "" {
		lock.SchemaVersion = lockSchemaVersion
	}
	if lock.Dependencies == nil {
		lock.Dependencies = map[string]string{}
	}
	data, err := toml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("driver: encode lockfile: %w", err)
	}
	if err := os.WriteFile(lock.Path, data, 0o644); err != nil {
		return fmt.Errorf("driver: write %s: %w", lock.Path, err)
	}
	return nil
}

// Commit returns the locked commit for name, or "".
func (l *Lockfile) Commit(name string) string {
	if l == nil {
		return ""
	}
	return l.Dependencies[name]
}

// Record updates the lockfile in memory from fetched dependencies.
func (l *Lockfile) Record(deps []LockedDependency) {
	if l.Dependencies == nil {
		l.Dependencies = map[string]string{}
	}
	for _, dep := range deps {
		if dep.Commit == "" {
			continue
		}
		l.Dependencies[dep.Name] = dep.Commit
	}
}
