package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewSummarizeCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <meeting-id>",
		Short: "Summarize a processed meeting and export documents",
		Long: "Assemble the meeting conversation, generate a summary with key points " +
			"and action items, persist it, and export summary and transcript docx " +
			"files to the output directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := args[0]

			if err := deps.Processor.Summarize(cmd.Context(), meetingID); err != nil {
				return err
			}

			fmt.Printf("summary for meeting %s saved, documents exported to %s\n",
				meetingID, deps.Config.Paths.Output)
			return nil
		},
	}

	return cmd
}
