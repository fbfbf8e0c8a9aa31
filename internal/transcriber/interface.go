package transcriber

import (
	"context"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

// Transcriber converts merged audio artifacts into speaker-tagged transcript
// segments with absolute timestamps.
type Transcriber interface {
	Transcribe(ctx context.Context, artifact meeting.MergedArtifact) (*Output, error)
}

// Output is the partial result for one artifact. Segments from healthy
// sub-windows survive even when sibling windows fail.
type Output struct {
	Segments       []meeting.TranscriptSegment
	WindowFailures []WindowFailure
}

// WindowFailure attributes a transcription error to one sub-window of an
// artifact.
type WindowFailure struct {
	MeetingID   string
	SpeakerID   string
	WindowIndex int
	Err         error
}
