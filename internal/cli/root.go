package cli

import (
	"github.com/spf13/cobra"

	"github.com/hoangnm2212/meetmerge/internal/config"
	"github.com/hoangnm2212/meetmerge/internal/logger"
	"github.com/hoangnm2212/meetmerge/internal/processor"
	"github.com/hoangnm2212/meetmerge/internal/store"
)

// Dependencies carries the wired collaborators into the commands.
type Dependencies struct {
	Config    *config.Config
	Logger    logger.Logger
	Store     store.Store
	Processor processor.Processor
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meetmerge",
		Short: "Merge meeting audio chunks, transcribe, and assemble conversations",
		Long: "meetmerge reconstructs per-speaker audio sequences from out-of-order " +
			"chunk uploads, merges them losslessly, transcribes the merged files, " +
			"and assembles a chronological cross-speaker conversation.",
	}

	rootCmd.AddCommand(NewWatchCmd(deps))
	rootCmd.AddCommand(NewProcessCmd(deps))
	rootCmd.AddCommand(NewAssembleCmd(deps))
	rootCmd.AddCommand(NewSummarizeCmd(deps))

	return rootCmd
}
