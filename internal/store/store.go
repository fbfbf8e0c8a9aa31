package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

type implStore struct {
	db *gorm.DB
}

// New opens the Postgres database and migrates the schema.
func New(dsn string) (Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&meetingRow{}, &chunkRow{}, &artifactRow{}, &segmentRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &implStore{db: db}, nil
}

// CreateMeeting registers a meeting if it does not exist yet.
func (s *implStore) CreateMeeting(ctx context.Context, meetingID string) error {
	row := meetingRow{ID: meetingID, CreatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("create meeting %s: %w", meetingID, err)
	}
	return nil
}

// EndMeeting stamps the meeting as ended.
func (s *implStore) EndMeeting(ctx context.Context, meetingID string) error {
	now := time.Now()
	err := s.db.WithContext(ctx).
		Model(&meetingRow{}).
		Where("id = ?", meetingID).
		Update("ended_at", &now).Error
	if err != nil {
		return fmt.Errorf("end meeting %s: %w", meetingID, err)
	}
	return nil
}

// AddParticipant records a speaker on the meeting's participant list.
func (s *implStore) AddParticipant(ctx context.Context, meetingID, speakerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row meetingRow
		if err := tx.Where("id = ?", meetingID).First(&row).Error; err != nil {
			return fmt.Errorf("load meeting %s: %w", meetingID, err)
		}

		var participants []string
		if len(row.Participants) > 0 {
			if err := json.Unmarshal(row.Participants, &participants); err != nil {
				return fmt.Errorf("decode participants: %w", err)
			}
		}
		for _, p := range participants {
			if p == speakerID {
				return nil
			}
		}
		participants = append(participants, speakerID)

		encoded, err := json.Marshal(participants)
		if err != nil {
			return err
		}
		return tx.Model(&meetingRow{}).
			Where("id = ?", meetingID).
			Update("participants", datatypes.JSON(encoded)).Error
	})
}

// SaveChunk inserts one immutable chunk record.
func (s *implStore) SaveChunk(ctx context.Context, chunk meeting.Chunk) error {
	row := chunkFromDomain(chunk)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save chunk: %w", err)
	}
	return nil
}

// QueryChunks returns all chunks for one (meeting, speaker) pair, unordered;
// ordering is the sequencer's job.
func (s *implStore) QueryChunks(ctx context.Context, meetingID, speakerID string) ([]meeting.Chunk, error) {
	var rows []chunkRow
	err := s.db.WithContext(ctx).
		Where("meeting_id = ? AND speaker_id = ?", meetingID, speakerID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}

	chunks := make([]meeting.Chunk, 0, len(rows))
	for _, r := range rows {
		chunks = append(chunks, r.toDomain())
	}
	return chunks, nil
}

// ListSpeakers returns the distinct speakers with chunks in the meeting.
func (s *implStore) ListSpeakers(ctx context.Context, meetingID string) ([]string, error) {
	var speakers []string
	err := s.db.WithContext(ctx).
		Model(&chunkRow{}).
		Where("meeting_id = ?", meetingID).
		Distinct("speaker_id").
		Order("speaker_id").
		Pluck("speaker_id", &speakers).Error
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return speakers, nil
}

// UpsertMergedArtifact writes the artifact keyed by its sequence span, so a
// retried meeting run overwrites rather than duplicates.
func (s *implStore) UpsertMergedArtifact(ctx context.Context, artifact meeting.MergedArtifact) error {
	row := artifactFromDomain(artifact)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "speaker_id"}, {Name: "sequence_start"}, {Name: "sequence_end"}},
			DoUpdates: clause.AssignmentColumns([]string{"merged_path", "complete"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert merged artifact: %w", err)
	}
	return nil
}

// FindMergedArtifact looks up an artifact by its sequence span. Returns
// (nil, nil) when no artifact exists, so callers can branch on retry-skip.
func (s *implStore) FindMergedArtifact(ctx context.Context, meetingID, speakerID string, start, end time.Time) (*meeting.MergedArtifact, error) {
	var row artifactRow
	err := s.db.WithContext(ctx).
		Where("meeting_id = ? AND speaker_id = ? AND sequence_start = ? AND sequence_end = ?",
			meetingID, speakerID, start, end).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find merged artifact: %w", err)
	}

	artifact := row.toDomain()
	return &artifact, nil
}

// UpsertTranscriptSegments replaces the speaker's segments for the meeting in
// one transaction, keeping re-runs idempotent.
func (s *implStore) UpsertTranscriptSegments(ctx context.Context, meetingID, speakerID string, segments []meeting.TranscriptSegment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ? AND speaker_id = ?", meetingID, speakerID).
			Delete(&segmentRow{}).Error; err != nil {
			return fmt.Errorf("clear transcript segments: %w", err)
		}

		if len(segments) == 0 {
			return nil
		}

		rows := make([]segmentRow, 0, len(segments))
		for _, seg := range segments {
			rows = append(rows, segmentRow{
				ID:        uuid.NewString(),
				MeetingID: meetingID,
				SpeakerID: seg.SpeakerID,
				Text:      seg.Text,
				StartTime: seg.StartTime,
				EndTime:   seg.EndTime,
				Ordinal:   seg.Ordinal,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert transcript segments: %w", err)
		}
		return nil
	})
}

// QueryTranscriptSegments returns every segment for the meeting across all
// speakers.
func (s *implStore) QueryTranscriptSegments(ctx context.Context, meetingID string) ([]meeting.TranscriptSegment, error) {
	var rows []segmentRow
	err := s.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query transcript segments: %w", err)
	}

	segments := make([]meeting.TranscriptSegment, 0, len(rows))
	for _, r := range rows {
		segments = append(segments, r.toDomain())
	}
	return segments, nil
}

// SaveSummary stores the summarizer output on the meeting row.
func (s *implStore) SaveSummary(ctx context.Context, meetingID string, summary meeting.Summary) error {
	keyPoints, err := json.Marshal(summary.KeyPoints)
	if err != nil {
		return err
	}
	actionItems, err := json.Marshal(summary.ActionItems)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).
		Model(&meetingRow{}).
		Where("id = ?", meetingID).
		Updates(map[string]interface{}{
			"summary_text": summary.Text,
			"key_points":   datatypes.JSON(keyPoints),
			"action_items": datatypes.JSON(actionItems),
		}).Error
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}
