package summarizer

import (
	"context"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
	"github.com/hoangnm2212/meetmerge/internal/timeline"
)

// Summarizer turns an assembled meeting timeline into an LLM-generated
// summary with key points and action items.
type Summarizer interface {
	Summarize(ctx context.Context, tl timeline.Timeline) (meeting.Summary, error)
	ExportDocx(tl timeline.Timeline, summary meeting.Summary, meetingID, destDir string) error
}
