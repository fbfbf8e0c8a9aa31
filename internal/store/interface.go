package store

import (
	"context"
	"time"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

// Store is the persistence surface for meetings, chunks, merged artifacts
// and transcript segments. All writes are per-entity upserts keyed by
// (meeting, speaker, span or id), so concurrent speaker tasks never contend
// on the same row.
type Store interface {
	CreateMeeting(ctx context.Context, meetingID string) error
	EndMeeting(ctx context.Context, meetingID string) error
	AddParticipant(ctx context.Context, meetingID, speakerID string) error

	SaveChunk(ctx context.Context, chunk meeting.Chunk) error
	QueryChunks(ctx context.Context, meetingID, speakerID string) ([]meeting.Chunk, error)
	ListSpeakers(ctx context.Context, meetingID string) ([]string, error)

	UpsertMergedArtifact(ctx context.Context, artifact meeting.MergedArtifact) error
	FindMergedArtifact(ctx context.Context, meetingID, speakerID string, start, end time.Time) (*meeting.MergedArtifact, error)

	UpsertTranscriptSegments(ctx context.Context, meetingID, speakerID string, segments []meeting.TranscriptSegment) error
	QueryTranscriptSegments(ctx context.Context, meetingID string) ([]meeting.TranscriptSegment, error)

	SaveSummary(ctx context.Context, meetingID string, summary meeting.Summary) error
}
