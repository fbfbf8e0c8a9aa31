// Package timeline reassembles per-speaker transcript segments into one
// chronologically ordered meeting conversation. Assembly is a pure
// read-and-reorder operation: re-running it over the same segment set yields
// the same output.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

// ConversationEntry is a transcript segment placed into the meeting-wide
// chronological timeline.
type ConversationEntry struct {
	meeting.TranscriptSegment
	Rank int
}

// Timeline is the assembled meeting conversation: the stable per-speaker
// reading order plus the global chronological order. This is the input
// contract for summarization and for the transcript view.
type Timeline struct {
	PerSpeaker    map[string][]meeting.TranscriptSegment
	Chronological []ConversationEntry
}

// Assemble orders the union of all speakers' segments. Per speaker, segments
// sort by start time with ties broken by ordinal. Chronologically, ties on
// start time break by speaker id; the ordering is arbitrary but total, so
// output is reproducible. Input is not mutated.
func Assemble(segments []meeting.TranscriptSegment) Timeline {
	perSpeaker := make(map[string][]meeting.TranscriptSegment)
	for _, seg := range segments {
		perSpeaker[seg.SpeakerID] = append(perSpeaker[seg.SpeakerID], seg)
	}
	for speaker := range perSpeaker {
		list := perSpeaker[speaker]
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].StartTime.Equal(list[j].StartTime) {
				return list[i].StartTime.Before(list[j].StartTime)
			}
			return list[i].Ordinal < list[j].Ordinal
		})
	}

	chronological := make([]ConversationEntry, 0, len(segments))
	for _, seg := range segments {
		chronological = append(chronological, ConversationEntry{TranscriptSegment: seg})
	}
	sort.SliceStable(chronological, func(i, j int) bool {
		if !chronological[i].StartTime.Equal(chronological[j].StartTime) {
			return chronological[i].StartTime.Before(chronological[j].StartTime)
		}
		return chronological[i].SpeakerID < chronological[j].SpeakerID
	})
	for i := range chronological {
		chronological[i].Rank = i
	}

	return Timeline{
		PerSpeaker:    perSpeaker,
		Chronological: chronological,
	}
}

// Speakers returns the speaker ids present in the timeline, sorted.
func (t Timeline) Speakers() []string {
	speakers := make([]string, 0, len(t.PerSpeaker))
	for s := range t.PerSpeaker {
		speakers = append(speakers, s)
	}
	sort.Strings(speakers)
	return speakers
}

// FormatChronological renders the whole conversation as one transcript,
// one line per utterance.
func (t Timeline) FormatChronological() string {
	var b strings.Builder
	for _, entry := range t.Chronological {
		fmt.Fprintf(&b, "[%s] %s: %s\n",
			entry.StartTime.Format("15:04:05"), entry.SpeakerID, entry.Text)
	}
	return b.String()
}

// FormatPerSpeaker renders each speaker's contributions as a timestamped
// block. This is the prompt payload handed to the summarizer.
func (t Timeline) FormatPerSpeaker() string {
	var b strings.Builder
	for _, speaker := range t.Speakers() {
		fmt.Fprintf(&b, "=== %s ===\n", speaker)
		for _, seg := range t.PerSpeaker[speaker] {
			fmt.Fprintf(&b, "[%s - %s]: %s\n",
				seg.StartTime.Format("15:04:05"), seg.EndTime.Format("15:04:05"), seg.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// GroupedText returns each speaker's text joined with timestamps, keyed by
// speaker id.
func (t Timeline) GroupedText() map[string]string {
	grouped := make(map[string]string, len(t.PerSpeaker))
	for speaker, segs := range t.PerSpeaker {
		lines := make([]string, 0, len(segs))
		for _, seg := range segs {
			lines = append(lines, fmt.Sprintf("[%s - %s]: %s",
				seg.StartTime.Format(time.TimeOnly), seg.EndTime.Format(time.TimeOnly), seg.Text))
		}
		grouped[speaker] = strings.Join(lines, "\n")
	}
	return grouped
}
