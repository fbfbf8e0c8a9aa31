package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// audioWindow is one fixed-size slice of an artifact, with its offset from
// the artifact start.
type audioWindow struct {
	path   string
	offset time.Duration
}

// probeDuration asks ffprobe for the audio duration.
func (t *implTranscriber) probeDuration(ctx context.Context, audioPath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}

	out, err := t.executor.Execute(ctx, t.cfg.FFmpeg.ProbePath, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(out), err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// splitAudio cuts the artifact into window-sized pieces with stream copy.
// Returns the scratch directory (caller removes it) and the windows in
// offset order.
func (t *implTranscriber) splitAudio(ctx context.Context, audioPath string, window time.Duration) (string, []audioWindow, error) {
	dir := filepath.Join(t.cfg.Paths.Temp, fmt.Sprintf("windows_%s", uuid.NewString()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("create window dir: %w", err)
	}

	ext := filepath.Ext(audioPath)
	pattern := filepath.Join(dir, "window_%03d"+ext)

	args := []string{
		"-i", audioPath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(int(window.Seconds())),
		"-c", "copy",
		"-y",
		pattern,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.FFmpeg.BinaryPath, args...); err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("ffmpeg segment: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("read window dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "window_") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	windows := make([]audioWindow, 0, len(names))
	for i, name := range names {
		windows = append(windows, audioWindow{
			path:   filepath.Join(dir, name),
			offset: time.Duration(i) * window,
		})
	}

	return dir, windows, nil
}

func (t *implTranscriber) cleanupDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		t.logger.Warn(ctx, "Failed to cleanup window dir %s: %v", dir, err)
	}
}
