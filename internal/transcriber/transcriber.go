package transcriber

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
	"github.com/hoangnm2212/meetmerge/internal/metrics"
)

// Transcribe submits the artifact to the speech-to-text service and rebases
// the returned file-relative timestamps to absolute wall-clock time. Long
// artifacts are cut into fixed sub-windows first; each window is transcribed
// independently so one window's failure leaves its siblings intact.
func (t *implTranscriber) Transcribe(ctx context.Context, artifact meeting.MergedArtifact) (*Output, error) {
	duration, err := t.probeDuration(ctx, artifact.MergedPath)
	if err != nil {
		return nil, fmt.Errorf("probe artifact duration: %w", err)
	}

	window := t.cfg.Transcription.Window()

	var windows []audioWindow
	if duration <= window {
		windows = []audioWindow{{path: artifact.MergedPath, offset: 0}}
	} else {
		t.logger.Info(ctx, "Artifact %s runs %s, splitting into %s windows",
			artifact.MergedPath, duration, window)

		dir, parts, err := t.splitAudio(ctx, artifact.MergedPath, window)
		if err != nil {
			return nil, fmt.Errorf("split artifact: %w", err)
		}
		defer t.cleanupDir(ctx, dir)
		windows = parts
	}

	out := &Output{}
	for i, w := range windows {
		segments, err := t.client.TranscribeFile(ctx, w.path)
		if err != nil {
			t.logger.Error(ctx, "Transcription failed for meeting=%s speaker=%s window=%d: %v",
				artifact.MeetingID, artifact.SpeakerID, i, err)
			out.WindowFailures = append(out.WindowFailures, WindowFailure{
				MeetingID:   artifact.MeetingID,
				SpeakerID:   artifact.SpeakerID,
				WindowIndex: i,
				Err:         err,
			})
			continue
		}

		for _, seg := range segments {
			out.Segments = append(out.Segments, meeting.TranscriptSegment{
				SpeakerID: artifact.SpeakerID,
				Text:      seg.Text,
				StartTime: rebase(artifact.SequenceStart, w.offset, seg.Start),
				EndTime:   rebase(artifact.SequenceStart, w.offset, seg.End),
			})
		}
	}

	// Windows arrive in order and segments are ordered within a window, but
	// the service does not guarantee it. Enforce non-decreasing start times.
	sort.SliceStable(out.Segments, func(i, j int) bool {
		return out.Segments[i].StartTime.Before(out.Segments[j].StartTime)
	})
	for i := range out.Segments {
		out.Segments[i].Ordinal = i
	}

	metrics.SegmentsProduced.Add(float64(len(out.Segments)))
	t.logger.Info(ctx, "Transcribed %s: %d segments, %d window failures",
		artifact.MergedPath, len(out.Segments), len(out.WindowFailures))

	return out, nil
}

// rebase converts a file-relative offset in seconds to absolute time.
func rebase(sequenceStart time.Time, windowOffset time.Duration, relativeSec float64) time.Time {
	return sequenceStart.
		Add(windowOffset).
		Add(time.Duration(relativeSec * float64(time.Second)))
}
