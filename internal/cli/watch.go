package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hoangnm2212/meetmerge/internal/watcher"
)

func NewWatchCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox directory and ingest dropped chunk files",
		Long: "Watch the configured inbox for incoming audio chunk files, validate " +
			"their filenames, move them into per-meeting storage, and record them. " +
			"Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			w, err := watcher.New(deps.Config, deps.Store, deps.Logger)
			if err != nil {
				return err
			}
			defer w.Stop()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() {
				if err := w.Start(ctx); err != nil && err != context.Canceled {
					errChan <- err
				}
			}()

			deps.Logger.Info(ctx, "Watching %s for chunk files, press Ctrl+C to stop", deps.Config.Paths.Inbox)

			select {
			case <-sigChan:
				deps.Logger.Info(ctx, "Shutdown signal received")
			case err := <-errChan:
				return err
			}

			cancel()
			return nil
		},
	}

	return cmd
}
