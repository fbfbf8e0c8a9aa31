package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewAssembleCmd(deps *Dependencies) *cobra.Command {
	var bySpeaker bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "assemble <meeting-id>",
		Short: "Print the assembled conversation for a meeting",
		Long: "Load all persisted transcript segments for the meeting and print them " +
			"as a chronological cross-speaker conversation, or grouped per speaker.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := deps.Processor.Assemble(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var rendered string
			if bySpeaker {
				rendered = tl.FormatPerSpeaker()
			} else {
				rendered = tl.FormatChronological()
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(rendered), 0644); err != nil {
					return fmt.Errorf("write transcript to %s: %w", outPath, err)
				}
				fmt.Printf("transcript written to %s\n", outPath)
				return nil
			}

			fmt.Print(rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&bySpeaker, "by-speaker", false, "group output per speaker instead of chronologically")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the transcript to a file instead of stdout")

	return cmd
}
