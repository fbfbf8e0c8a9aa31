package processor

import (
	"github.com/hoangnm2212/meetmerge/internal/composer"
	"github.com/hoangnm2212/meetmerge/internal/config"
	"github.com/hoangnm2212/meetmerge/internal/logger"
	"github.com/hoangnm2212/meetmerge/internal/store"
	"github.com/hoangnm2212/meetmerge/internal/summarizer"
	"github.com/hoangnm2212/meetmerge/internal/transcriber"
)

type implProcessor struct {
	cfg         *config.Config
	store       store.Store
	composer    composer.Composer
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	logger      logger.Logger
}

// New creates a new Processor instance
func New(
	cfg *config.Config,
	st store.Store,
	comp composer.Composer,
	tr transcriber.Transcriber,
	sum summarizer.Summarizer,
	log logger.Logger,
) Processor {
	return &implProcessor{
		cfg:         cfg,
		store:       st,
		composer:    comp,
		transcriber: tr,
		summarizer:  sum,
		logger:      log.With("processor"),
	}
}
