package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/codegen"
	"eagle/interpreter-go/pkg/compilation"
	"eagle/interpreter-go/pkg/diagnostics"
	"eagle/interpreter-go/pkg/driver"
	"eagle/interpreter-go/pkg/interpreter"
	"eagle/interpreter-go/pkg/runtime"

	"github.com/samber/do"
)

const cliToolVersion = "eagle 0.0.0-dev"

const (
	exitOK       = 0
	exitFailure  = 1
	exitInternal = 2
)

// fetchLimit bounds concurrent dependency clones.
const fetchLimit = 4

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := defaultConfig()
	var rest []string
	for _, arg := range args {
		switch arg {
		case "--verbose", "-v":
			cfg.verbose = true
		default:
			rest = append(rest, arg)
		}
	}
	if len(rest) == 0 {
		printUsage(cfg)
		return exitFailure
	}

	switch rest[0] {
	case "--help", "-h", "help":
		printUsage(cfg)
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(cfg.stdout, cliToolVersion)
		return exitOK
	}

	cmd, args := rest[0], rest[1:]
	switch cmd {
	case "run", "check", "lower", "llvm":
		if len(args) == 1 && !driver.IsUnitFile(args[0]) {
			cfg.dir = args[0]
		}
	}
	injector := newContainer(cfg)
	defer injector.Shutdown()

	switch cmd {
	case "run":
		return runUnits(injector, args)
	case "check":
		return runCheck(injector, args)
	case "lower":
		return runLower(injector, args)
	case "llvm":
		return runLLVM(injector, args)
	case "deps":
		return runDeps(injector, args)
	case "repl":
		return runREPL(injector, args)
	default:
		fmt.Fprintf(cfg.stderr, "unknown command %q\n", cmd)
		printUsage(cfg)
		return exitFailure
	}
}

func printUsage(cfg cliConfig) {
	fmt.Fprint(cfg.stderr, `usage: eagle [--verbose] <command> [args]

commands:
  run [unit|project-dir]  bind, lower and evaluate, printing the last value
  check <unit>            report diagnostics
  lower <unit>            print the lowered program
  llvm <unit>             print LLVM IR
  deps install            fetch dependencies and write eagle.lock
  repl                    evaluate one JSON unit per input line
`)
}

// source is the set of units a command works on. path labels diagnostics
// when a single unit file was named.
type source struct {
	path  string
	units []*ast.CompilationUnit
}

func loadSource(injector *do.Injector, args []string) (source, error) {
	if len(args) > 1 {
		return source{}, fmt.Errorf("unexpected arguments: %s", strings.Join(args[1:], " "))
	}
	if len(args) == 1 && driver.IsUnitFile(args[0]) {
		unit, err := do.MustInvoke[*driver.Loader](injector).Load(args[0])
		if err != nil {
			return source{}, err
		}
		return source{path: args[0], units: []*ast.CompilationUnit{unit}}, nil
	}
	manifest, err := do.Invoke[*driver.Manifest](injector)
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return source{}, fmt.Errorf("no unit file given and %s not found", driver.ManifestName)
		}
		return source{}, err
	}
	deps, err := resolveDependencies(injector, manifest)
	if err != nil {
		return source{}, err
	}
	units, err := do.MustInvoke[*driver.Loader](injector).LoadProject(manifest, deps)
	if err != nil {
		return source{}, err
	}
	s := source{units: units}
	if len(units) == 1 {
		s.path = units[0].Path
	}
	return s, nil
}

// resolveDependencies fetches whatever eagle.lock pins, cloning only what is
// missing from the cache.
func resolveDependencies(injector *do.Injector, m *driver.Manifest) ([]driver.LockedDependency, error) {
	if len(m.Dependencies) == 0 {
		return nil, nil
	}
	lock, err := driver.LoadLockfile(filepath.Join(m.Dir(), driver.LockfileName))
	if err != nil {
		return nil, err
	}
	fetcher, err := do.Invoke[*driver.GitFetcher](injector)
	if err != nil {
		return nil, err
	}
	return driver.FetchAll(context.Background(), m, lock, fetcher, fetchLimit)
}

func newCompilation(injector *do.Injector, units []*ast.CompilationUnit) *compilation.Compilation {
	return compilation.New(units, compilation.WithLogger(do.MustInvoke[*slog.Logger](injector)))
}

func reportDiagnostics(cfg cliConfig, path string, diags []diagnostics.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(cfg.stderr, diagnostics.Describe(path, d))
	}
}

func reportInternal(cfg cliConfig, err error) int {
	fmt.Fprintf(cfg.stderr, "internal error: %v\n", err)
	return exitInternal
}

func runUnits(injector *do.Injector, args []string) int {
	cfg := do.MustInvoke[cliConfig](injector)
	src, err := loadSource(injector, args)
	if err != nil {
		fmt.Fprintf(cfg.stderr, "eagle run: %v\n", err)
		return exitFailure
	}
	result, err := newCompilation(injector, src.units).Evaluate(
		do.MustInvoke[*interpreter.Interpreter](injector),
		do.MustInvoke[*runtime.Store](injector),
	)
	if errors.Is(err, compilation.ErrHasDiagnostics) {
		reportDiagnostics(cfg, src.path, result.Diagnostics)
		return exitFailure
	}
	if err != nil {
		return reportInternal(cfg, err)
	}
	printValue(cfg, result.Value)
	return exitOK
}

func printValue(cfg cliConfig, value runtime.Value) {
	if value == nil || value.Kind() == runtime.KindVoid {
		return
	}
	fmt.Fprintln(cfg.stdout, runtime.Stringify(value))
}

func runCheck(injector *do.Injector, args []string) int {
	cfg := do.MustInvoke[cliConfig](injector)
	src, err := loadSource(injector, args)
	if err != nil {
		fmt.Fprintf(cfg.stderr, "eagle check: %v\n", err)
		return exitFailure
	}
	diags, err := newCompilation(injector, src.units).Diagnostics()
	if err != nil {
		return reportInternal(cfg, err)
	}
	if len(diags) > 0 {
		reportDiagnostics(cfg, src.path, diags)
		return exitFailure
	}
	return exitOK
}

// lowered binds and lowers the named units, reporting diagnostics itself.
func lowered(injector *do.Injector, name string, args []string) (*binder.Unit, int) {
	cfg := do.MustInvoke[cliConfig](injector)
	src, err := loadSource(injector, args)
	if err != nil {
		fmt.Fprintf(cfg.stderr, "eagle %s: %v\n", name, err)
		return nil, exitFailure
	}
	comp := newCompilation(injector, src.units)
	diags, err := comp.Diagnostics()
	if err != nil {
		return nil, reportInternal(cfg, err)
	}
	if len(diags) > 0 {
		reportDiagnostics(cfg, src.path, diags)
		return nil, exitFailure
	}
	unit, err := comp.Lower()
	if err != nil {
		return nil, reportInternal(cfg, err)
	}
	return unit, exitOK
}

func runLower(injector *do.Injector, args []string) int {
	unit, code := lowered(injector, "lower", args)
	if unit == nil {
		return code
	}
	cfg := do.MustInvoke[cliConfig](injector)
	if err := binder.PrintUnit(cfg.stdout, unit); err != nil {
		return reportInternal(cfg, err)
	}
	return exitOK
}

func runLLVM(injector *do.Injector, args []string) int {
	unit, code := lowered(injector, "llvm", args)
	if unit == nil {
		return code
	}
	cfg := do.MustInvoke[cliConfig](injector)
	module, err := do.MustInvoke[emitter](injector)(unit)
	if errors.Is(err, codegen.ErrUnsupported) {
		fmt.Fprintf(cfg.stderr, "eagle llvm: %v\n", err)
		return exitFailure
	}
	if err != nil {
		return reportInternal(cfg, err)
	}
	fmt.Fprint(cfg.stdout, module.String())
	return exitOK
}

func runDeps(injector *do.Injector, args []string) int {
	cfg := do.MustInvoke[cliConfig](injector)
	if len(args) != 1 || args[0] != "install" {
		fmt.Fprintln(cfg.stderr, "usage: eagle deps install")
		return exitFailure
	}
	manifest, err := do.Invoke[*driver.Manifest](injector)
	if err != nil {
		fmt.Fprintf(cfg.stderr, "eagle deps: %v\n", err)
		return exitFailure
	}
	lock, err := driver.LoadLockfile(filepath.Join(manifest.Dir(), driver.LockfileName))
	if err != nil {
		fmt.Fprintf(cfg.stderr, "eagle deps: %v\n", err)
		return exitFailure
	}
	fetcher, err := do.Invoke[*driver.GitFetcher](injector)
	if err != nil {
		fmt.Fprintf(cfg.stderr, "eagle deps: %v\n", err)
		return exitFailure
	}
	deps, err := driver.FetchAll(context.Background(), manifest, lock, fetcher, fetchLimit)
	if err != nil {
		fmt.Fprintf(cfg.stderr, "eagle deps: %v\n", err)
		return exitFailure
	}
	lock.Record(deps)
	if err := driver.WriteLockfile(lock); err != nil {
		fmt.Fprintf(cfg.stderr, "eagle deps: %v\n", err)
		return exitFailure
	}
	for _, dep := range deps {
		if dep.Commit == "" {
			fmt.Fprintf(cfg.stdout, "%s %s\n", dep.Name, dep.Dir)
			continue
		}
		fmt.Fprintf(cfg.stdout, "%s %s\n", dep.Name, dep.Commit)
	}
	return exitOK
}

// runREPL evaluates each input line as a JSON unit continuing the previous
// accepted line. Submissions with diagnostics are discarded. Lines consumed
// by Input are not submissions.
func runREPL(injector *do.Injector, args []string) int {
	cfg := do.MustInvoke[cliConfig](injector)
	if len(args) > 0 {
		fmt.Fprintf(cfg.stderr, "eagle repl: unexpected arguments: %s\n", strings.Join(args, " "))
		return exitFailure
	}
	reader := do.MustInvoke[*bufio.Reader](injector)

	var previous *compilation.Compilation
	for line := 1; ; line++ {
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(cfg.stderr, "eagle repl: %v\n", err)
			return exitFailure
		}
		if text := strings.TrimSpace(raw); text != "" {
			previous = submit(injector, previous, line, text)
		}
		if err != nil {
			return exitOK
		}
	}
}

// submit evaluates one REPL line and returns the compilation the next line
// continues from.
func submit(injector *do.Injector, previous *compilation.Compilation, line int, text string) *compilation.Compilation {
	cfg := do.MustInvoke[cliConfig](injector)
	unit, err := ast.DecodeJSON([]byte(text))
	if err != nil {
		fmt.Fprintf(cfg.stderr, "line %d: %v\n", line, err)
		return previous
	}
	var current *compilation.Compilation
	if previous == nil {
		current = newCompilation(injector, []*ast.CompilationUnit{unit})
	} else {
		current = previous.ContinueWith(unit)
	}
	result, err := current.Evaluate(
		do.MustInvoke[*interpreter.Interpreter](injector),
		do.MustInvoke[*runtime.Store](injector),
	)
	switch {
	case errors.Is(err, compilation.ErrHasDiagnostics):
		reportDiagnostics(cfg, fmt.Sprintf("line %d", line), result.Diagnostics)
		return previous
	case err != nil:
		reportInternal(cfg, err)
	default:
		printValue(cfg, result.Value)
	}
	return current
}
