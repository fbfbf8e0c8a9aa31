package composer

import (
	"context"
	"sync"
	"time"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
	"github.com/hoangnm2212/meetmerge/internal/metrics"
)

// Compose merges every sequence into one audio artifact. Sequences are
// independent, so they run concurrently; results keep the input order.
func (c *implComposer) Compose(ctx context.Context, sequences []meeting.Sequence) Result {
	artifacts := make([]*meeting.MergedArtifact, len(sequences))
	failures := make([]*Failure, len(sequences))

	sem := newSemaphore(c.cfg.Performance.MaxConcurrent)
	var wg sync.WaitGroup

	for i, seq := range sequences {
		if err := sem.acquire(ctx); err != nil {
			failures[i] = &Failure{
				MeetingID:     seq.MeetingID(),
				SpeakerID:     seq.SpeakerID(),
				SequenceIndex: i,
				Err:           err,
			}
			continue
		}

		wg.Add(1)
		go func(idx int, seq meeting.Sequence) {
			defer wg.Done()
			defer sem.release()

			started := time.Now()
			artifact, err := c.mergeSequence(ctx, seq)
			if err != nil {
				c.logger.Error(ctx, "Merge failed for meeting=%s speaker=%s sequence=%d: %v",
					seq.MeetingID(), seq.SpeakerID(), idx, err)
				metrics.MergesFailed.Inc()
				failures[idx] = &Failure{
					MeetingID:     seq.MeetingID(),
					SpeakerID:     seq.SpeakerID(),
					SequenceIndex: idx,
					Err:           err,
				}
				return
			}

			metrics.MergesSucceeded.Inc()
			metrics.MergeDuration.Observe(time.Since(started).Seconds())
			c.logger.Info(ctx, "Merged %d chunks into %s (%s - %s)",
				len(seq.Chunks), artifact.MergedPath,
				artifact.SequenceStart.Format(time.RFC3339),
				artifact.SequenceEnd.Format(time.RFC3339))
			artifacts[idx] = artifact
		}(i, seq)
	}

	wg.Wait()

	var result Result
	for i := range sequences {
		if artifacts[i] != nil {
			result.Artifacts = append(result.Artifacts, *artifacts[i])
		}
		if failures[i] != nil {
			result.Failures = append(result.Failures, *failures[i])
		}
	}
	return result
}
