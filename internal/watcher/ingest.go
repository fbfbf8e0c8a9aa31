package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
	"github.com/hoangnm2212/meetmerge/internal/metrics"
)

// chunkFile is the metadata carried in a dropped file's name:
// <meetingID>_<speakerID>_<position>_<startMs>-<endMs>.wav
type chunkFile struct {
	MeetingID string
	SpeakerID string
	Position  meeting.Position
	StartTime time.Time
	EndTime   time.Time
}

// parseChunkFilename extracts chunk metadata from a dropped file's name.
// Meeting and speaker ids must not contain underscores.
func parseChunkFilename(path string) (*chunkFile, error) {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if strings.ToLower(ext) != ".wav" && strings.ToLower(ext) != ".mp3" {
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}

	parts := strings.Split(strings.TrimSuffix(name, ext), "_")
	if len(parts) != 4 {
		return nil, fmt.Errorf("filename %q does not match <meeting>_<speaker>_<position>_<start>-<end>", name)
	}

	position, err := meeting.ParsePosition(parts[2])
	if err != nil {
		return nil, err
	}

	span := strings.SplitN(parts[3], "-", 2)
	if len(span) != 2 {
		return nil, fmt.Errorf("invalid time span %q", parts[3])
	}
	startMs, err := strconv.ParseInt(span[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", span[0], err)
	}
	endMs, err := strconv.ParseInt(span[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", span[1], err)
	}
	if endMs < startMs {
		return nil, fmt.Errorf("chunk end %d before start %d", endMs, startMs)
	}

	return &chunkFile{
		MeetingID: parts[0],
		SpeakerID: parts[1],
		Position:  position,
		StartTime: time.UnixMilli(startMs).UTC(),
		EndTime:   time.UnixMilli(endMs).UTC(),
	}, nil
}

// ingest moves the dropped file into per-meeting storage and registers the
// chunk record.
func (w *implWatcher) ingest(ctx context.Context, path string) error {
	cf, err := parseChunkFilename(path)
	if err != nil {
		return err
	}

	destDir := filepath.Join(w.cfg.Paths.Uploads, cf.MeetingID, cf.SpeakerID)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	destPath := filepath.Join(destDir, fmt.Sprintf("%d-%d_%s%s",
		cf.StartTime.UnixMilli(), cf.EndTime.UnixMilli(), cf.Position, filepath.Ext(path)))
	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("move chunk into uploads: %w", err)
	}

	if err := w.store.CreateMeeting(ctx, cf.MeetingID); err != nil {
		return err
	}
	if err := w.store.AddParticipant(ctx, cf.MeetingID, cf.SpeakerID); err != nil {
		return err
	}

	chunk := meeting.Chunk{
		ID:          uuid.NewString(),
		MeetingID:   cf.MeetingID,
		SpeakerID:   cf.SpeakerID,
		Position:    cf.Position,
		StartTime:   cf.StartTime,
		EndTime:     cf.EndTime,
		StoragePath: destPath,
	}
	if err := w.store.SaveChunk(ctx, chunk); err != nil {
		return err
	}

	metrics.ChunksIngested.Inc()
	w.logger.Info(ctx, "Ingested chunk meeting=%s speaker=%s position=%s span=%s-%s",
		cf.MeetingID, cf.SpeakerID, cf.Position,
		cf.StartTime.Format(time.RFC3339), cf.EndTime.Format(time.RFC3339))
	return nil
}
