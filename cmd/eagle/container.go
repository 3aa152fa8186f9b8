package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/codegen"
	"eagle/interpreter-go/pkg/driver"
	"eagle/interpreter-go/pkg/interpreter"
	"eagle/interpreter-go/pkg/runtime"

	"github.com/llir/llvm/ir"
	"github.com/samber/do"
)

// cliConfig holds what the command line decided before services are built.
type cliConfig struct {
	verbose bool
	dir     string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// emitter turns a lowered unit into an LLVM module.
type emitter func(*binder.Unit) (*ir.Module, error)

func newContainer(cfg cliConfig) *do.Injector {
	injector := do.New()
	do.ProvideValue(injector, cfg)

	do.Provide(injector, func(i *do.Injector) (*driver.Manifest, error) {
		path, err := driver.FindManifest(cfg.dir)
		if err != nil {
			return nil, err
		}
		return driver.LoadManifest(path)
	})
	do.Provide(injector, func(i *do.Injector) (*slog.Logger, error) {
		level := slog.LevelWarn
		if m, err := do.Invoke[*driver.Manifest](i); err == nil {
			level = m.LogLevel
		}
		if cfg.verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(cfg.stderr, &slog.HandlerOptions{Level: level})), nil
	})
	do.Provide(injector, func(i *do.Injector) (*driver.Loader, error) {
		return driver.NewLoader(driver.WithLogger(do.MustInvoke[*slog.Logger](i))), nil
	})
	do.Provide(injector, func(i *do.Injector) (*driver.GitFetcher, error) {
		cache, err := driver.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		return driver.NewGitFetcher(filepath.Join(cache, "pkg"), driver.WithLogger(do.MustInvoke[*slog.Logger](i))), nil
	})
	// One buffered stdin serves both the REPL and the Input built-in.
	do.Provide(injector, func(i *do.Injector) (*bufio.Reader, error) {
		return bufio.NewReader(cfg.stdin), nil
	})
	do.Provide(injector, func(i *do.Injector) (*interpreter.Interpreter, error) {
		return interpreter.New(
			interpreter.WithLogger(do.MustInvoke[*slog.Logger](i)),
			interpreter.WithOutput(cfg.stdout),
			interpreter.WithInput(do.MustInvoke[*bufio.Reader](i)),
		), nil
	})
	do.Provide(injector, func(i *do.Injector) (*runtime.Store, error) {
		return runtime.NewStore(), nil
	})
	do.ProvideValue[emitter](injector, codegen.EmitModule)
	return injector
}

func defaultConfig() cliConfig {
	return cliConfig{dir: ".", stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}
