// Package driver turns an Eagle project on disk into compilation units: it
// reads eagle.yml and eagle.lock, fetches git dependencies into a cache, and
// decodes syntax-tree files.
package driver

import (
	"io"
	"log/slog"
)

type settings struct {
	logger *slog.Logger
}

// Option configures a GitFetcher or Loader.
type Option func(*settings)

// WithLogger routes driver logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
