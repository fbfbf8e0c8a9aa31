package watcher

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/hoangnm2212/meetmerge/internal/config"
	"github.com/hoangnm2212/meetmerge/internal/logger"
	"github.com/hoangnm2212/meetmerge/internal/store"
)

type implWatcher struct {
	cfg       *config.Config
	store     store.Store
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher over the configured inbox with concurrency control.
func New(cfg *config.Config, st store.Store, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(cfg.Paths.Inbox); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	maxConcurrent := cfg.Performance.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		cfg:       cfg,
		store:     st,
		logger:    log.With("watcher"),
		watcher:   watcher,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}
