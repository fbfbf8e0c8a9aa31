package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hoangnm2212/meetmerge/internal/config"
	"github.com/hoangnm2212/meetmerge/internal/logger"
	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

var artifactStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// stubExecutor answers ffprobe with a fixed duration and materializes window
// files for ffmpeg segment invocations.
type stubExecutor struct {
	durationSec float64
	windows     int
	probeErr    error
}

func (s *stubExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	joined := strings.Join(args, " ")

	if strings.Contains(joined, "format=duration") {
		if s.probeErr != nil {
			return "", s.probeErr
		}
		return fmt.Sprintf("%f\n", s.durationSec), nil
	}

	if strings.Contains(joined, "-f segment") {
		// Last argument is the output pattern.
		pattern := args[len(args)-1]
		for i := 0; i < s.windows; i++ {
			if err := os.WriteFile(fmt.Sprintf(pattern, i), []byte("audio"), 0644); err != nil {
				return "", err
			}
		}
		return "", nil
	}

	return "", nil
}

// stubServer returns one segment per request, or HTTP 500 for uploads whose
// filename contains failWhen.
func stubServer(t *testing.T, segStart, segEnd float64, text string, failWhen string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if failWhen != "" && strings.Contains(header.Filename, failWhen) {
			http.Error(w, "simulated failure", http.StatusInternalServerError)
			return
		}

		resp := apiResponse{
			Text:     text,
			Segments: []apiSegment{{Start: segStart, End: segEnd, Text: text}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func transcriberConfig(t *testing.T, endpoint string, windowSec int) *config.Config {
	t.Helper()
	return &config.Config{
		Paths:  config.PathsConfig{Temp: t.TempDir()},
		FFmpeg: config.FFmpegConfig{BinaryPath: "ffmpeg", ProbePath: "ffprobe"},
		Transcription: config.TranscriptionConfig{
			Endpoint:      endpoint,
			Model:         "whisper-1",
			Language:      "en",
			TimeoutSec:    5,
			MaxRetries:    0,
			MaxConcurrent: 2,
			WindowSec:     windowSec,
		},
	}
}

func writeAudioFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeShortArtifact(t *testing.T) {
	srv := stubServer(t, 0, 3, "hello there", "")
	defer srv.Close()

	cfg := transcriberConfig(t, srv.URL, 300)
	tr := New(cfg, &stubExecutor{durationSec: 15}, logger.New("error", "json"))

	artifact := meeting.MergedArtifact{
		MeetingID:     "m1",
		SpeakerID:     "u1",
		MergedPath:    writeAudioFile(t, "merged.wav"),
		SequenceStart: artifactStart,
		SequenceEnd:   artifactStart.Add(15 * time.Second),
	}

	out, err := tr.Transcribe(context.Background(), artifact)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(out.WindowFailures) != 0 {
		t.Fatalf("WindowFailures = %v, want none", out.WindowFailures)
	}
	if len(out.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(out.Segments))
	}

	seg := out.Segments[0]
	if seg.SpeakerID != "u1" {
		t.Errorf("SpeakerID = %s, want u1", seg.SpeakerID)
	}
	if !seg.StartTime.Equal(artifactStart) {
		t.Errorf("StartTime = %v, want %v", seg.StartTime, artifactStart)
	}
	if !seg.EndTime.Equal(artifactStart.Add(3 * time.Second)) {
		t.Errorf("EndTime = %v, want %v", seg.EndTime, artifactStart.Add(3*time.Second))
	}
	if seg.Ordinal != 0 {
		t.Errorf("Ordinal = %d, want 0", seg.Ordinal)
	}
}

func TestTranscribeWindowedArtifact(t *testing.T) {
	srv := stubServer(t, 1, 2, "windowed", "")
	defer srv.Close()

	cfg := transcriberConfig(t, srv.URL, 10)
	tr := New(cfg, &stubExecutor{durationSec: 25, windows: 3}, logger.New("error", "json"))

	artifact := meeting.MergedArtifact{
		MeetingID:     "m1",
		SpeakerID:     "u1",
		MergedPath:    writeAudioFile(t, "long.wav"),
		SequenceStart: artifactStart,
		SequenceEnd:   artifactStart.Add(25 * time.Second),
	}

	out, err := tr.Transcribe(context.Background(), artifact)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(out.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(out.Segments))
	}

	// Each window's segment is rebased by its offset within the artifact.
	for i, seg := range out.Segments {
		wantStart := artifactStart.Add(time.Duration(i)*10*time.Second + 1*time.Second)
		if !seg.StartTime.Equal(wantStart) {
			t.Errorf("segment %d StartTime = %v, want %v", i, seg.StartTime, wantStart)
		}
		if seg.Ordinal != i {
			t.Errorf("segment %d Ordinal = %d, want %d", i, seg.Ordinal, i)
		}
	}
}

func TestTranscribeWindowFailureIsolation(t *testing.T) {
	srv := stubServer(t, 0, 2, "partial", "window_001")
	defer srv.Close()

	cfg := transcriberConfig(t, srv.URL, 10)
	tr := New(cfg, &stubExecutor{durationSec: 25, windows: 3}, logger.New("error", "json"))

	artifact := meeting.MergedArtifact{
		MeetingID:     "m1",
		SpeakerID:     "u1",
		MergedPath:    writeAudioFile(t, "long.wav"),
		SequenceStart: artifactStart,
		SequenceEnd:   artifactStart.Add(25 * time.Second),
	}

	out, err := tr.Transcribe(context.Background(), artifact)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if len(out.Segments) != 2 {
		t.Fatalf("got %d segments, want 2 surviving", len(out.Segments))
	}
	if len(out.WindowFailures) != 1 {
		t.Fatalf("got %d window failures, want 1", len(out.WindowFailures))
	}
	if out.WindowFailures[0].WindowIndex != 1 {
		t.Errorf("failed window = %d, want 1", out.WindowFailures[0].WindowIndex)
	}

	// Sibling windows keep their own rebased timestamps.
	wantStarts := []time.Time{artifactStart, artifactStart.Add(20 * time.Second)}
	for i, seg := range out.Segments {
		if !seg.StartTime.Equal(wantStarts[i]) {
			t.Errorf("segment %d StartTime = %v, want %v", i, seg.StartTime, wantStarts[i])
		}
	}
}

func TestTranscribeProbeFailure(t *testing.T) {
	cfg := transcriberConfig(t, "http://localhost:1", 300)
	tr := New(cfg, &stubExecutor{probeErr: fmt.Errorf("no such file")}, logger.New("error", "json"))

	artifact := meeting.MergedArtifact{
		MeetingID:  "m1",
		SpeakerID:  "u1",
		MergedPath: "missing.wav",
	}

	if _, err := tr.Transcribe(context.Background(), artifact); err == nil {
		t.Error("Transcribe() should fail when probing fails")
	}
}
