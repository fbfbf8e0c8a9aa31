package timeline

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func segment(speaker, text string, startSec, endSec, ordinal int) meeting.TranscriptSegment {
	return meeting.TranscriptSegment{
		SpeakerID: speaker,
		Text:      text,
		StartTime: base.Add(time.Duration(startSec) * time.Second),
		EndTime:   base.Add(time.Duration(endSec) * time.Second),
		Ordinal:   ordinal,
	}
}

func TestAssembleChronological(t *testing.T) {
	// spk1@10s, spk2@5s, spk1@20s must come out as spk2@5s, spk1@10s, spk1@20s.
	segments := []meeting.TranscriptSegment{
		segment("spk1", "first from one", 10, 12, 0),
		segment("spk2", "hello", 5, 8, 0),
		segment("spk1", "second from one", 20, 22, 1),
	}

	tl := Assemble(segments)

	var order []string
	for _, e := range tl.Chronological {
		order = append(order, e.SpeakerID+"@"+e.StartTime.Format("15:04:05"))
	}
	want := []string{"spk2@09:00:05", "spk1@09:00:10", "spk1@09:00:20"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("chronological order = %v, want %v", order, want)
	}

	for i, e := range tl.Chronological {
		if e.Rank != i {
			t.Errorf("entry %d Rank = %d, want %d", i, e.Rank, i)
		}
	}
}

func TestAssemblePerSpeaker(t *testing.T) {
	segments := []meeting.TranscriptSegment{
		segment("u2", "b", 30, 35, 0),
		segment("u1", "late", 40, 45, 1),
		segment("u1", "early", 0, 5, 0),
	}

	tl := Assemble(segments)

	if len(tl.PerSpeaker) != 2 {
		t.Fatalf("PerSpeaker has %d speakers, want 2", len(tl.PerSpeaker))
	}

	u1 := tl.PerSpeaker["u1"]
	if len(u1) != 2 || u1[0].Text != "early" || u1[1].Text != "late" {
		t.Errorf("u1 segments = %v, want [early late]", u1)
	}
}

func TestAssembleTieBreaks(t *testing.T) {
	// Identical start times across speakers: speaker id decides, giving a
	// deterministic total order.
	segments := []meeting.TranscriptSegment{
		segment("zed", "z", 10, 12, 0),
		segment("abe", "a", 10, 12, 0),
	}

	tl := Assemble(segments)
	if tl.Chronological[0].SpeakerID != "abe" || tl.Chronological[1].SpeakerID != "zed" {
		t.Errorf("tie-break order = [%s %s], want [abe zed]",
			tl.Chronological[0].SpeakerID, tl.Chronological[1].SpeakerID)
	}

	// Identical start times within a speaker: ordinal decides.
	segments = []meeting.TranscriptSegment{
		segment("u1", "second", 10, 12, 1),
		segment("u1", "first", 10, 12, 0),
	}
	tl = Assemble(segments)
	u1 := tl.PerSpeaker["u1"]
	if u1[0].Text != "first" || u1[1].Text != "second" {
		t.Errorf("ordinal tie-break = [%s %s], want [first second]", u1[0].Text, u1[1].Text)
	}
}

func TestAssembleIdempotent(t *testing.T) {
	segments := []meeting.TranscriptSegment{
		segment("u1", "a", 10, 12, 0),
		segment("u2", "b", 5, 8, 0),
		segment("u1", "c", 20, 22, 1),
	}

	first := Assemble(segments)
	second := Assemble(segments)

	if !reflect.DeepEqual(first, second) {
		t.Error("Assemble() is not idempotent over the same segment set")
	}
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	segments := []meeting.TranscriptSegment{
		segment("u1", "a", 10, 12, 0),
		segment("u2", "b", 5, 8, 0),
	}
	snapshot := make([]meeting.TranscriptSegment, len(segments))
	copy(snapshot, segments)

	Assemble(segments)

	if !reflect.DeepEqual(segments, snapshot) {
		t.Error("Assemble() mutated its input")
	}
}

func TestAssembleEmpty(t *testing.T) {
	tl := Assemble(nil)
	if len(tl.Chronological) != 0 || len(tl.PerSpeaker) != 0 {
		t.Errorf("Assemble(nil) = %+v, want empty timeline", tl)
	}
}

func TestFormatChronological(t *testing.T) {
	tl := Assemble([]meeting.TranscriptSegment{
		segment("u2", "hello", 5, 8, 0),
		segment("u1", "hi back", 10, 12, 0),
	})

	got := tl.FormatChronological()
	want := "[09:00:05] u2: hello\n[09:00:10] u1: hi back\n"
	if got != want {
		t.Errorf("FormatChronological() = %q, want %q", got, want)
	}
}

func TestFormatPerSpeaker(t *testing.T) {
	tl := Assemble([]meeting.TranscriptSegment{
		segment("u1", "mine", 0, 5, 0),
		segment("u2", "yours", 5, 10, 0),
	})

	got := tl.FormatPerSpeaker()
	if !strings.Contains(got, "=== u1 ===") || !strings.Contains(got, "=== u2 ===") {
		t.Errorf("FormatPerSpeaker() missing speaker headers:\n%s", got)
	}
	if !strings.Contains(got, "[09:00:00 - 09:00:05]: mine") {
		t.Errorf("FormatPerSpeaker() missing timestamped entry:\n%s", got)
	}
}

func TestGroupedText(t *testing.T) {
	tl := Assemble([]meeting.TranscriptSegment{
		segment("u1", "one", 0, 5, 0),
		segment("u1", "two", 5, 10, 1),
	})

	grouped := tl.GroupedText()
	if len(grouped) != 1 {
		t.Fatalf("GroupedText() has %d speakers, want 1", len(grouped))
	}
	text := grouped["u1"]
	if !strings.Contains(text, "one") || !strings.Contains(text, "two") {
		t.Errorf("grouped text = %q, want both utterances", text)
	}
	if strings.Index(text, "one") > strings.Index(text, "two") {
		t.Error("grouped text out of order")
	}
}
