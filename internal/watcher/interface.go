package watcher

import "context"

// Watcher monitors the inbox directory for dropped audio chunk files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}
