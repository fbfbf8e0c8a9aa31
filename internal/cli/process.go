package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewProcessCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <meeting-id>",
		Short: "Merge and transcribe all recorded chunks for a meeting",
		Long: "Reconstruct per-speaker chunk sequences, merge each sequence into one " +
			"audio file, transcribe the merged files, and persist the transcript " +
			"segments. Speakers and sequences fail independently; the command exits " +
			"non-zero only when every unit of work failed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := args[0]

			report, err := deps.Processor.Process(cmd.Context(), meetingID)
			if err != nil {
				return err
			}

			fmt.Printf("meeting %s: %d speakers, %d merged artifacts, %d transcript segments\n",
				report.MeetingID, len(report.Speakers), len(report.Artifacts), report.SegmentCount)

			if !report.OK() {
				fmt.Fprintf(os.Stderr, "%d units failed:\n", len(report.Failures))
				for _, f := range report.Failures {
					fmt.Fprintf(os.Stderr, "  %s\n", f)
				}
				if len(report.Artifacts) == 0 && report.SegmentCount == 0 {
					return fmt.Errorf("all units failed for meeting %s", meetingID)
				}
			}

			return nil
		},
	}

	return cmd
}
