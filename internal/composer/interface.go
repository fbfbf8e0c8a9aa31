package composer

import (
	"context"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

// Composer merges reconstructed chunk sequences into single audio artifacts.
type Composer interface {
	Compose(ctx context.Context, sequences []meeting.Sequence) Result
}

// Result carries the partial outcome of a compose run: successfully merged
// artifacts alongside per-sequence failures. One sequence failing never
// aborts its siblings.
type Result struct {
	Artifacts []meeting.MergedArtifact
	Failures  []Failure
}

// Failure attributes a merge error to one (meeting, speaker, sequence) unit.
type Failure struct {
	MeetingID     string
	SpeakerID     string
	SequenceIndex int
	Err           error
}
