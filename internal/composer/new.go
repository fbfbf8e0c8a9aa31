package composer

import (
	"github.com/hoangnm2212/meetmerge/internal/config"
	"github.com/hoangnm2212/meetmerge/internal/logger"
	"github.com/hoangnm2212/meetmerge/pkg/executor"
)

type implComposer struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Composer instance
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Composer {
	return &implComposer{
		cfg:      cfg,
		executor: exec,
		logger:   log.With("composer"),
	}
}
