package composer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

// mergeSequence concatenates the sequence's chunk files, in order, into one
// artifact. Formats are uniform per meeting, so the concat demuxer runs with
// stream copy and no re-encoding.
func (c *implComposer) mergeSequence(ctx context.Context, seq meeting.Sequence) (*meeting.MergedArtifact, error) {
	if len(seq.Chunks) == 0 {
		return nil, fmt.Errorf("empty sequence")
	}

	outDir := filepath.Join(c.cfg.Paths.Merged, seq.MeetingID())
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create merged dir: %w", err)
	}

	outputPath := filepath.Join(outDir, fmt.Sprintf("%s_%d-%d.%s",
		seq.SpeakerID(),
		seq.Start().UnixMilli(),
		seq.End().UnixMilli(),
		c.cfg.FFmpeg.AudioFormat,
	))

	if len(seq.Chunks) == 1 {
		// Merge of one file is the identity operation: stream copy.
		if err := c.copyAudio(ctx, seq.Chunks[0].StoragePath, outputPath); err != nil {
			return nil, err
		}
	} else {
		if err := c.concatAudio(ctx, seq.Paths(), outputPath); err != nil {
			return nil, err
		}
	}

	return &meeting.MergedArtifact{
		ID:            uuid.NewString(),
		MeetingID:     seq.MeetingID(),
		SpeakerID:     seq.SpeakerID(),
		MergedPath:    outputPath,
		SequenceStart: seq.Start(),
		SequenceEnd:   seq.End(),
		Complete:      seq.Complete(),
	}, nil
}

// concatAudio drives the ffmpeg concat demuxer with an ordered list file.
// The list file is scratch state and is removed on every path out.
func (c *implComposer) concatAudio(ctx context.Context, inputPaths []string, outputPath string) error {
	if err := os.MkdirAll(c.cfg.Paths.Temp, 0755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	listPath := filepath.Join(c.cfg.Paths.Temp, fmt.Sprintf("concat_%s.txt", uuid.NewString()))
	if err := writeConcatList(listPath, inputPaths); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer func() {
		if err := os.Remove(listPath); err != nil {
			c.logger.Warn(ctx, "Failed to cleanup concat list %s: %v", listPath, err)
		}
	}()

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	}

	if _, err := c.executor.Execute(ctx, c.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}

// copyAudio passes a single chunk through unchanged.
func (c *implComposer) copyAudio(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-i", inputPath,
		"-c", "copy",
		"-y",
		outputPath,
	}

	if _, err := c.executor.Execute(ctx, c.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return fmt.Errorf("ffmpeg copy: %w", err)
	}
	return nil
}

// writeConcatList produces the ffmpeg concat demuxer input: one absolute
// path per line.
func writeConcatList(listPath string, inputPaths []string) error {
	f, err := os.Create(listPath)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, p := range inputPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", abs); err != nil {
			return err
		}
	}
	return nil
}
