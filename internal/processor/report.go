package processor

import (
	"fmt"
	"strings"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
	"github.com/hoangnm2212/meetmerge/internal/timeline"
)

// Stage names the pipeline step a unit failure occurred in.
type Stage string

const (
	StageMerge      Stage = "merge"
	StageTranscribe Stage = "transcribe"
	StagePersist    Stage = "persist"
)

// UnitFailure attributes one failure to its unit of work. SequenceIndex and
// WindowIndex are -1 when they do not apply.
type UnitFailure struct {
	MeetingID     string
	SpeakerID     string
	SequenceIndex int
	WindowIndex   int
	Stage         Stage
	Err           error
}

func (f UnitFailure) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "meeting=%s speaker=%s stage=%s", f.MeetingID, f.SpeakerID, f.Stage)
	if f.SequenceIndex >= 0 {
		fmt.Fprintf(&b, " sequence=%d", f.SequenceIndex)
	}
	if f.WindowIndex >= 0 {
		fmt.Fprintf(&b, " window=%d", f.WindowIndex)
	}
	fmt.Fprintf(&b, ": %v", f.Err)
	return b.String()
}

// Report is the structured partial result of one meeting-level run. A failed
// unit never blocks sibling units, so successes and failures coexist.
type Report struct {
	MeetingID    string
	Speakers     []string
	Artifacts    []meeting.MergedArtifact
	SegmentCount int
	Timeline     timeline.Timeline
	Failures     []UnitFailure
}

// OK reports whether every unit of work succeeded.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// speakerResult carries one speaker's outcome from its worker goroutine.
type speakerResult struct {
	artifacts []meeting.MergedArtifact
	segments  int
	failures  []UnitFailure
}
