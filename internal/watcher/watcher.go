package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hoangnm2212/meetmerge/internal/metrics"
)

// Start begins monitoring the inbox for dropped chunk files. Each matching
// file is registered concurrently, bounded by the semaphore.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started. Monitoring: %s", w.cfg.Paths.Inbox)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for in-flight ingests to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}

			if _, err := parseChunkFilename(event.Name); err != nil {
				w.logger.Debug(ctx, "Ignoring non-chunk file %s: %v", event.Name, err)
				continue
			}

			w.logger.Info(ctx, "New chunk detected: %s", event.Name)

			// Small delay to ensure the file is fully written
			time.Sleep(500 * time.Millisecond)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := w.ingest(ctx, path); err != nil {
						metrics.IngestErrors.Inc()
						w.logger.Error(ctx, "Failed to ingest %s: %v", path, err)
					}
				}(event.Name)
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
