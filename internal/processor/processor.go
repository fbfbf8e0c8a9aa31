package processor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
	"github.com/hoangnm2212/meetmerge/internal/metrics"
	"github.com/hoangnm2212/meetmerge/internal/sequencer"
	"github.com/hoangnm2212/meetmerge/internal/timeline"
)

// Process runs the pipeline for one meeting. Speakers are independent and
// run in parallel; each speaker's sequences and artifacts fail in isolation.
func (p *implProcessor) Process(ctx context.Context, meetingID string) (*Report, error) {
	startTime := time.Now()

	speakers, err := p.store.ListSpeakers(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	if len(speakers) == 0 {
		return nil, fmt.Errorf("no chunks recorded for meeting %s", meetingID)
	}

	p.logger.Info(ctx, "Processing meeting %s with %d speakers", meetingID, len(speakers))

	results := make([]speakerResult, len(speakers))
	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	var wg sync.WaitGroup

	for i, speaker := range speakers {
		if err := sem.acquire(ctx); err != nil {
			results[i].failures = append(results[i].failures, UnitFailure{
				MeetingID: meetingID, SpeakerID: speaker,
				SequenceIndex: -1, WindowIndex: -1,
				Stage: StageMerge, Err: err,
			})
			continue
		}

		wg.Add(1)
		go func(idx int, speaker string) {
			defer wg.Done()
			defer sem.release()
			results[idx] = p.processSpeaker(ctx, meetingID, speaker)
		}(i, speaker)
	}

	wg.Wait()

	report := &Report{MeetingID: meetingID, Speakers: speakers}
	for _, r := range results {
		report.Artifacts = append(report.Artifacts, r.artifacts...)
		report.SegmentCount += r.segments
		report.Failures = append(report.Failures, r.failures...)
	}

	tl, err := p.Assemble(ctx, meetingID)
	if err != nil {
		return report, fmt.Errorf("assemble timeline: %w", err)
	}
	report.Timeline = tl

	p.logger.Info(ctx, "Meeting %s processed in %s: %d artifacts, %d segments, %d failures",
		meetingID, time.Since(startTime), len(report.Artifacts), report.SegmentCount, len(report.Failures))
	for _, f := range report.Failures {
		p.logger.Warn(ctx, "Unit failure: %s", f)
	}

	return report, nil
}

// processSpeaker reconstructs, merges and transcribes one speaker's chunks.
func (p *implProcessor) processSpeaker(ctx context.Context, meetingID, speaker string) speakerResult {
	var result speakerResult

	fail := func(stage Stage, seqIdx, winIdx int, err error) {
		result.failures = append(result.failures, UnitFailure{
			MeetingID: meetingID, SpeakerID: speaker,
			SequenceIndex: seqIdx, WindowIndex: winIdx,
			Stage: stage, Err: err,
		})
	}

	chunks, err := p.store.QueryChunks(ctx, meetingID, speaker)
	if err != nil {
		fail(StagePersist, -1, -1, err)
		return result
	}

	sequences := sequencer.Reconstruct(chunks)
	for _, seq := range sequences {
		metrics.SequencesBuilt.Inc()
		metrics.SequenceChunks.Observe(float64(len(seq.Chunks)))
		if !seq.Complete() {
			metrics.SequencesIncomplete.Inc()
			p.logger.Warn(ctx, "Incomplete sequence for meeting=%s speaker=%s starting %s: merging anyway",
				meetingID, speaker, seq.Start().Format(time.RFC3339))
		}
	}

	p.logger.Info(ctx, "Speaker %s: %d chunks form %d sequences", speaker, len(chunks), len(sequences))

	// Skip sequences whose artifact already exists so a retried run does not
	// redo completed merges.
	var pending []meeting.Sequence
	pendingIdx := make([]int, 0, len(sequences))
	var artifacts []meeting.MergedArtifact
	for i, seq := range sequences {
		existing, err := p.store.FindMergedArtifact(ctx, meetingID, speaker, seq.Start(), seq.End())
		if err != nil {
			fail(StagePersist, i, -1, err)
			continue
		}
		if existing != nil {
			p.logger.Debug(ctx, "Reusing merged artifact %s", existing.MergedPath)
			artifacts = append(artifacts, *existing)
			continue
		}
		pending = append(pending, seq)
		pendingIdx = append(pendingIdx, i)
	}

	composed := p.composer.Compose(ctx, pending)
	for _, f := range composed.Failures {
		fail(StageMerge, pendingIdx[f.SequenceIndex], -1, f.Err)
	}
	for _, artifact := range composed.Artifacts {
		if err := p.store.UpsertMergedArtifact(ctx, artifact); err != nil {
			fail(StagePersist, -1, -1, err)
			continue
		}
		artifacts = append(artifacts, artifact)
	}
	result.artifacts = artifacts

	var segments []meeting.TranscriptSegment
	for _, artifact := range artifacts {
		out, err := p.transcriber.Transcribe(ctx, artifact)
		if err != nil {
			fail(StageTranscribe, -1, -1, err)
			continue
		}
		for _, wf := range out.WindowFailures {
			fail(StageTranscribe, -1, wf.WindowIndex, wf.Err)
		}
		segments = append(segments, out.Segments...)
	}

	// Ordinals were assigned per artifact; renumber across the speaker's
	// whole meeting in time order.
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartTime.Before(segments[j].StartTime)
	})
	for i := range segments {
		segments[i].Ordinal = i
	}

	if err := p.store.UpsertTranscriptSegments(ctx, meetingID, speaker, segments); err != nil {
		fail(StagePersist, -1, -1, err)
		return result
	}
	result.segments = len(segments)

	return result
}

// Assemble loads all segments for the meeting and reorders them into the
// cross-speaker conversation. Segments from speakers with no chunk records
// are kept but flagged, since they point at drift between collaborators.
func (p *implProcessor) Assemble(ctx context.Context, meetingID string) (timeline.Timeline, error) {
	segments, err := p.store.QueryTranscriptSegments(ctx, meetingID)
	if err != nil {
		return timeline.Timeline{}, fmt.Errorf("query transcript segments: %w", err)
	}

	speakers, err := p.store.ListSpeakers(ctx, meetingID)
	if err != nil {
		return timeline.Timeline{}, fmt.Errorf("list speakers: %w", err)
	}
	known := make(map[string]bool, len(speakers))
	for _, s := range speakers {
		known[s] = true
	}
	for _, seg := range segments {
		if !known[seg.SpeakerID] {
			p.logger.Warn(ctx, "Segment speaker %s has no chunk records in meeting %s; keeping segment",
				seg.SpeakerID, meetingID)
		}
	}

	return timeline.Assemble(segments), nil
}

// Summarize generates and persists the meeting summary from the assembled
// timeline, then exports the docx documents.
func (p *implProcessor) Summarize(ctx context.Context, meetingID string) error {
	tl, err := p.Assemble(ctx, meetingID)
	if err != nil {
		return err
	}

	summary, err := p.summarizer.Summarize(ctx, tl)
	if err != nil {
		return fmt.Errorf("summarize meeting %s: %w", meetingID, err)
	}

	if err := p.store.SaveSummary(ctx, meetingID, summary); err != nil {
		return err
	}

	if err := p.summarizer.ExportDocx(tl, summary, meetingID, p.cfg.Paths.Output); err != nil {
		return err
	}

	// Summarization is the terminal step of the pipeline.
	if err := p.store.EndMeeting(ctx, meetingID); err != nil {
		return err
	}

	p.logger.Info(ctx, "Summary for meeting %s saved (%d key points, %d action items)",
		meetingID, len(summary.KeyPoints), len(summary.ActionItems))
	return nil
}
