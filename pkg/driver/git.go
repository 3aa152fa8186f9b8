package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/sync/errgroup"
)

// LockedDependency is a dependency resolved to a directory on disk. Commit
// is empty for path dependencies.
type LockedDependency struct {
	Name   string
	Commit string
	Dir    string
}

// GitFetcher clones git dependencies into <CacheDir>/src/<name>/<commit>.
type GitFetcher struct {
	CacheDir string
	logger   *slog.Logger
}

func NewGitFetcher(cacheDir string, opts ...Option) *GitFetcher {
	s := newSettings(opts)
	return &GitFetcher{CacheDir: cacheDir, logger: s.logger}
}

// DefaultCacheDir is $EAGLE_HOME, or ~/.eagle when unset.
func DefaultCacheDir() (string, error) {
	if home := os.Getenv("EAGLE_HOME"); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("driver: locate home directory: %w", err)
	}
	return filepath.Join(home, ".eagle"), nil
}

// Fetch resolves a git dependency to a checkout. A non-empty locked commit
// must be a full hash and takes precedence over its rev, tag, or branch.
func (g *GitFetcher) Fetch(ctx context.Context, name string, spec *DependencySpec, locked string) (LockedDependency, error) {
	if g == nil || g.CacheDir == "" {
		return LockedDependency{}, errors.New("driver: git fetcher has no cache directory")
	}
	if !spec.IsGit() {
		return LockedDependency{}, fmt.Errorf("driver: dependency %q: git URL required", name)
	}
	if locked != "" && !plumbing.IsHash(locked) {
		return LockedDependency{}, fmt.Errorf("driver: lockfile commit %q for %q is not a hash", locked, name)
	}
	revision := revisionFor(spec, locked)
	baseDir := filepath.Join(g.CacheDir, "src", sanitizeSegment(name))

	pinned := locked
	if pinned == "" && plumbing.IsHash(spec.Rev) {
		pinned = spec.Rev
	}
	if pinned != "" {
		dir := filepath.Join(baseDir, pinned)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			g.logger.Debug("dependency cached", "name", name, "commit", pinned)
			return LockedDependency{Name: name, Commit: pinned, Dir: dir}, nil
		}
	}

	started := time.Now()
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return LockedDependency{}, fmt.Errorf("driver: create %s: %w", baseDir, err)
	}
	tmpDir, err := os.MkdirTemp(baseDir, "tmp-*")
	if err != nil {
		return LockedDependency{}, fmt.Errorf("driver: create checkout directory: %w", err)
	}
	commit, err := g.checkout(ctx, tmpDir, spec.Git, revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return LockedDependency{}, fmt.Errorf("driver: dependency %q: %w", name, err)
	}

	target := filepath.Join(baseDir, commit)
	if _, err := os.Stat(target); err == nil {
		_ = os.RemoveAll(tmpDir)
	} else if err := os.Rename(tmpDir, target); err != nil {
		_ = os.RemoveAll(tmpDir)
		return LockedDependency{}, fmt.Errorf("driver: dependency %q: %w", name, err)
	}
	g.logger.Info("fetched dependency",
		"name", name,
		"url", spec.Git,
		"revision", string(revision),
		"commit", commit,
		"duration", time.Since(started))
	return LockedDependency{Name: name, Commit: commit, Dir: target}, nil
}

func (g *GitFetcher) checkout(ctx context.Context, dir, url string, revision plumbing.Revision) (string, error) {
	// MkdirTemp leaves an empty directory; PlainClone wants to create it.
	if err := os.RemoveAll(dir); err != nil {
		return "", err
	}
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: url})
	if err != nil {
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	return hash.String(), nil
}

// revisionFor picks the revision to check out. Branches resolve through the
// clone's remote-tracking refs since only the default branch is local.
func revisionFor(spec *DependencySpec, locked string) plumbing.Revision {
	switch {
	case locked != "":
		return plumbing.Revision(locked)
	case spec.Rev != "":
		return plumbing.Revision(spec.Rev)
	case spec.Tag != "":
		return plumbing.Revision("refs/tags/" + spec.Tag)
	case spec.Branch != "":
		return plumbing.Revision("refs/remotes/origin/" + spec.Branch)
	default:
		return plumbing.Revision(plumbing.HEAD)
	}
}

// FetchAll resolves every dependency of m, cloning git dependencies with at
// most limit concurrent fetches. Results are sorted by name.
func FetchAll(ctx context.Context, m *Manifest, lock *Lockfile, fetcher *GitFetcher, limit int) ([]LockedDependency, error) {
	names := m.DependencyNames()
	results := make([]LockedDependency, len(names))

	group, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}
	for i, name := range names {
		spec := m.Dependencies[name]
		if !spec.IsGit() {
			dir := spec.Path
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(m.Dir(), dir)
			}
			results[i] = LockedDependency{Name: name, Dir: dir}
			continue
		}
		i, name := i, name
		group.Go(func() error {
			dep, err := fetcher.Fetch(ctx, name, spec, lock.Commit(name))
			if err != nil {
				return err
			}
			results[i] = dep
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}
