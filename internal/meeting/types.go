package meeting

import (
	"fmt"
	"strings"
	"time"
)

// Position marks a chunk's role within its recording sequence.
type Position string

const (
	PositionStart  Position = "start"
	PositionMiddle Position = "middle"
	PositionEnd    Position = "end"
)

// ParsePosition converts a raw string into a Position.
func ParsePosition(s string) (Position, error) {
	switch Position(strings.ToLower(strings.TrimSpace(s))) {
	case PositionStart:
		return PositionStart, nil
	case PositionMiddle:
		return PositionMiddle, nil
	case PositionEnd:
		return PositionEnd, nil
	default:
		return "", fmt.Errorf("unknown chunk position %q", s)
	}
}

// Chunk is one uploaded audio fragment. Chunks are immutable after ingest.
type Chunk struct {
	ID          string
	MeetingID   string
	SpeakerID   string
	Position    Position
	StartTime   time.Time
	EndTime     time.Time
	StoragePath string
}

// Sequence is an ordered run of chunks representing one continuous recording
// session for a single (meeting, speaker) pair. Chunks are sorted ascending
// by start time.
type Sequence struct {
	Chunks []Chunk
}

// Start returns the wall-clock start of the sequence.
func (s Sequence) Start() time.Time {
	if len(s.Chunks) == 0 {
		return time.Time{}
	}
	return s.Chunks[0].StartTime
}

// End returns the wall-clock end of the sequence.
func (s Sequence) End() time.Time {
	if len(s.Chunks) == 0 {
		return time.Time{}
	}
	return s.Chunks[len(s.Chunks)-1].EndTime
}

// Complete reports whether the sequence has both its start and end brackets.
// Incomplete sequences are still merged and transcribed; the flag is recorded
// for operators.
func (s Sequence) Complete() bool {
	if len(s.Chunks) == 0 {
		return false
	}
	return s.Chunks[0].Position == PositionStart &&
		s.Chunks[len(s.Chunks)-1].Position == PositionEnd
}

// MeetingID returns the meeting the sequence belongs to.
func (s Sequence) MeetingID() string {
	if len(s.Chunks) == 0 {
		return ""
	}
	return s.Chunks[0].MeetingID
}

// SpeakerID returns the speaker the sequence belongs to.
func (s Sequence) SpeakerID() string {
	if len(s.Chunks) == 0 {
		return ""
	}
	return s.Chunks[0].SpeakerID
}

// Paths returns the chunk storage paths in merge order.
func (s Sequence) Paths() []string {
	paths := make([]string, 0, len(s.Chunks))
	for _, c := range s.Chunks {
		paths = append(paths, c.StoragePath)
	}
	return paths
}

// MergedArtifact is the single audio file produced by merging one sequence.
type MergedArtifact struct {
	ID            string
	MeetingID     string
	SpeakerID     string
	MergedPath    string
	SequenceStart time.Time
	SequenceEnd   time.Time
	Complete      bool
}

// Duration returns the wall-clock span covered by the artifact.
func (a MergedArtifact) Duration() time.Duration {
	return a.SequenceEnd.Sub(a.SequenceStart)
}

// TranscriptSegment is one timestamped utterance attributed to a speaker.
// Times are absolute wall-clock, already rebased from the transcription
// service's file-relative offsets.
type TranscriptSegment struct {
	SpeakerID string
	Text      string
	StartTime time.Time
	EndTime   time.Time
	Ordinal   int
}

// Summary is the output of the meeting summarization collaborator.
type Summary struct {
	Text        string
	KeyPoints   []string
	ActionItems []string
}
