package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hoangnm2212/meetmerge/internal/config"
	"github.com/hoangnm2212/meetmerge/internal/metrics"
)

// apiSegment is one transcript segment as returned by the speech-to-text
// service, with timestamps in seconds relative to the start of the file.
type apiSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type apiResponse struct {
	Text     string       `json:"text"`
	Segments []apiSegment `json:"segments"`
}

// Client is the HTTP client for the external speech-to-text service.
type Client struct {
	cfg        config.TranscriptionConfig
	httpClient *http.Client
	semaphore  chan struct{}
}

// NewClient creates a transcription client with bounded concurrency.
func NewClient(cfg config.TranscriptionConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		semaphore:  make(chan struct{}, cfg.MaxConcurrent),
	}
}

// TranscribeFile uploads the audio file and returns segments with
// file-relative timestamps. Retries on 5xx and 429 with linear backoff.
func (c *Client) TranscribeFile(ctx context.Context, audioPath string) ([]apiSegment, error) {
	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.TranscriptionRetries.Inc()
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		segments, retryable, err := c.doRequest(ctx, audioPath)
		if err == nil {
			return segments, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, audioPath string) (segments []apiSegment, retryable bool, err error) {
	started := time.Now()
	metrics.TranscriptionRequests.Inc()

	body, contentType, err := c.buildForm(audioPath)
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, body)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.TranscriptionFailures.Inc()
		return nil, true, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.TranscriptionFailures.Inc()
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.TranscriptionFailures.Inc()
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("transcription API error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		metrics.TranscriptionFailures.Inc()
		return nil, false, fmt.Errorf("parse transcription response: %w", err)
	}

	metrics.TranscriptionDuration.Observe(time.Since(started).Seconds())
	return parsed.Segments, false, nil
}

// buildForm assembles the multipart upload: model, language and the audio
// file itself.
func (c *Client) buildForm(audioPath string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", c.cfg.Model); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("language", c.cfg.Language); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, "", err
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
