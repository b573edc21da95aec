package catalog

import "go.uber.org/zap"

// Option customises catalog construction.
type Option func(*config)

type config struct {
	logger   *zap.Logger
	sanitize func(string) string
}

func newConfig(options ...Option) *config {
	cfg := &config{
		logger:   zap.NewNop(),
		sanitize: sanitizeText,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

// WithLogger routes loader diagnostics to the supplied logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSanitizer replaces the text sanitiser applied to community-submitted
// strings. Pass nil to keep submitted text verbatim.
func WithSanitizer(fn func(string) string) Option {
	return func(c *config) {
		c.sanitize = fn
	}
}
