package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepo commits files into a fresh repository at dir and returns the
// repository with the commit hash.
func initRepo(t *testing.T, dir string, files map[string]string) (*git.Repository, string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return repo, commitFiles(t, repo, dir, files)
}

func commitFiles(t *testing.T, repo *git.Repository, dir string, files map[string]string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	for name, content := range files {
		writeFile(t, filepath.Join(dir, name), content)
		if _, err := worktree.Add(name); err != nil {
			t.Fatalf("Add %s: %v", name, err)
		}
	}
	hash, err := worktree.Commit("update", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Eagle Tests",
			Email: "tests@eagle.invalid",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestGitFetcherChecksOutTag(t *testing.T) {
	remote := t.TempDir()
	repo, first := initRepo(t, remote, map[string]string{"lib.json": jsonUnit})
	if _, err := repo.CreateTag("v1", plumbing.NewHash(first), nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	second := commitFiles(t, repo, remote, map[string]string{"extra.yml": yamlUnit})
	if first == second {
		t.Fatalf("expected distinct commits")
	}

	cache := t.TempDir()
	fetcher := NewGitFetcher(cache)
	dep, err := fetcher.Fetch(context.Background(), "lib", &DependencySpec{Git: remote, Tag: "v1"}, "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if dep.Commit != first {
		t.Fatalf("expected tagged commit %s, got %s", first, dep.Commit)
	}
	if dep.Dir != filepath.Join(cache, "src", "lib", first) {
		t.Fatalf("unexpected checkout dir %s", dep.Dir)
	}
	if _, err := os.Stat(filepath.Join(dep.Dir, "lib.json")); err != nil {
		t.Fatalf("expected lib.json in checkout: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dep.Dir, "extra.yml")); !os.IsNotExist(err) {
		t.Fatalf("extra.yml belongs to a later commit, stat err = %v", err)
	}

	head, err := fetcher.Fetch(context.Background(), "lib", &DependencySpec{Git: remote}, "")
	if err != nil {
		t.Fatalf("Fetch HEAD: %v", err)
	}
	if head.Commit != second {
		t.Fatalf("expected HEAD commit %s, got %s", second, head.Commit)
	}
	entries, err := os.ReadDir(filepath.Join(cache, "src", "lib"))
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two checkouts and no temp dirs, got %d entries", len(entries))
	}
}

func TestFetchAllHonoursLockfile(t *testing.T) {
	remote := t.TempDir()
	repo, first := initRepo(t, remote, map[string]string{"lib.json": jsonUnit})
	second := commitFiles(t, repo, remote, map[string]string{"lib.json": jsonUnit + "\n"})

	project := t.TempDir()
	writeFile(t, filepath.Join(project, "main.json"), jsonUnit)
	writeFile(t, filepath.Join(project, ManifestName), "name: app\nentry: main.json\ndependencies:\n  lib: {git: "+remote+", branch: master}\n")
	m, err := LoadManifest(filepath.Join(project, ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	lock, err := LoadLockfile(filepath.Join(project, LockfileName))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}

	fetcher := NewGitFetcher(t.TempDir())
	deps, err := FetchAll(context.Background(), m, lock, fetcher, 4)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(deps) != 1 || deps[0].Commit != second {
		t.Fatalf("expected branch tip %s, got %+v", second, deps)
	}

	lock.Dependencies["lib"] = first
	deps, err = FetchAll(context.Background(), m, lock, fetcher, 4)
	if err != nil {
		t.Fatalf("FetchAll locked: %v", err)
	}
	if deps[0].Commit != first {
		t.Fatalf("expected locked commit %s, got %s", first, deps[0].Commit)
	}

	units, err := NewLoader().LoadProject(m, deps)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if len(units) != 2 || units[0].Path != filepath.Join(deps[0].Dir, "lib.json") {
		t.Fatalf("expected dependency unit first, got %d units", len(units))
	}
}

func TestFetchFailsForUnknownTag(t *testing.T) {
	remote := t.TempDir()
	initRepo(t, remote, map[string]string{"lib.json": jsonUnit})
	cache := t.TempDir()
	_, err := NewGitFetcher(cache).Fetch(context.Background(), "lib", &DependencySpec{Git: remote, Tag: "missing"}, "")
	if err == nil {
		t.Fatalf("expected unresolved tag error")
	}
	entries, _ := os.ReadDir(filepath.Join(cache, "src", "lib"))
	if len(entries) != 0 {
		t.Fatalf("expected the temporary checkout to be removed, found %d entries", len(entries))
	}
}

func TestFetchRejectsLockedCommitThatIsNotAHash(t *testing.T) {
	cache := t.TempDir()
	outside := filepath.Join(cache, "x")
	if err := os.MkdirAll(outside, 0o755); err != nil {
		t.Fatal(err)
	}
	dep, err := NewGitFetcher(cache).Fetch(context.Background(), "lib", &DependencySpec{Git: t.TempDir()}, "../../x")
	if err == nil {
		t.Fatalf("expected an error, resolved to %s", dep.Dir)
	}
	if _, statErr := os.Stat(filepath.Join(cache, "src")); !os.IsNotExist(statErr) {
		t.Fatalf("nothing may be created for a rejected commit")
	}
}
