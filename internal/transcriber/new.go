package transcriber

import (
	"github.com/hoangnm2212/meetmerge/internal/config"
	"github.com/hoangnm2212/meetmerge/internal/logger"
	"github.com/hoangnm2212/meetmerge/pkg/executor"
)

type implTranscriber struct {
	cfg      *config.Config
	executor executor.Executor
	client   *Client
	logger   logger.Logger
}

// New creates a new Transcriber instance
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Transcriber {
	return &implTranscriber{
		cfg:      cfg,
		executor: exec,
		client:   NewClient(cfg.Transcription),
		logger:   log.With("transcriber"),
	}
}
