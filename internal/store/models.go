package store

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

type meetingRow struct {
	ID           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	EndedAt      *time.Time
	Participants datatypes.JSON // array of speaker ids
	SummaryText  string
	KeyPoints    datatypes.JSON
	ActionItems  datatypes.JSON
}

func (meetingRow) TableName() string { return "meetings" }

type chunkRow struct {
	ID          string `gorm:"primaryKey"`
	MeetingID   string `gorm:"index:idx_chunks_meeting_speaker"`
	SpeakerID   string `gorm:"index:idx_chunks_meeting_speaker"`
	Position    string
	StartTime   time.Time
	EndTime     time.Time
	StoragePath string
	CreatedAt   time.Time
}

func (chunkRow) TableName() string { return "chunks" }

func (r chunkRow) toDomain() meeting.Chunk {
	return meeting.Chunk{
		ID:          r.ID,
		MeetingID:   r.MeetingID,
		SpeakerID:   r.SpeakerID,
		Position:    meeting.Position(r.Position),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		StoragePath: r.StoragePath,
	}
}

func chunkFromDomain(c meeting.Chunk) chunkRow {
	return chunkRow{
		ID:          c.ID,
		MeetingID:   c.MeetingID,
		SpeakerID:   c.SpeakerID,
		Position:    string(c.Position),
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		StoragePath: c.StoragePath,
	}
}

type artifactRow struct {
	ID            string    `gorm:"primaryKey"`
	MeetingID     string    `gorm:"uniqueIndex:idx_artifacts_span"`
	SpeakerID     string    `gorm:"uniqueIndex:idx_artifacts_span"`
	SequenceStart time.Time `gorm:"uniqueIndex:idx_artifacts_span"`
	SequenceEnd   time.Time `gorm:"uniqueIndex:idx_artifacts_span"`
	MergedPath    string
	Complete      bool
	CreatedAt     time.Time
}

func (artifactRow) TableName() string { return "merged_artifacts" }

func (r artifactRow) toDomain() meeting.MergedArtifact {
	return meeting.MergedArtifact{
		ID:            r.ID,
		MeetingID:     r.MeetingID,
		SpeakerID:     r.SpeakerID,
		MergedPath:    r.MergedPath,
		SequenceStart: r.SequenceStart,
		SequenceEnd:   r.SequenceEnd,
		Complete:      r.Complete,
	}
}

func artifactFromDomain(a meeting.MergedArtifact) artifactRow {
	return artifactRow{
		ID:            a.ID,
		MeetingID:     a.MeetingID,
		SpeakerID:     a.SpeakerID,
		SequenceStart: a.SequenceStart,
		SequenceEnd:   a.SequenceEnd,
		MergedPath:    a.MergedPath,
		Complete:      a.Complete,
	}
}

type segmentRow struct {
	ID        string `gorm:"primaryKey"`
	MeetingID string `gorm:"index:idx_segments_meeting"`
	SpeakerID string
	Text      string
	StartTime time.Time
	EndTime   time.Time
	Ordinal   int
	CreatedAt time.Time
}

func (segmentRow) TableName() string { return "transcript_segments" }

func (r segmentRow) toDomain() meeting.TranscriptSegment {
	return meeting.TranscriptSegment{
		SpeakerID: r.SpeakerID,
		Text:      r.Text,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Ordinal:   r.Ordinal,
	}
}
