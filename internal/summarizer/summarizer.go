package summarizer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
	"github.com/hoangnm2212/meetmerge/internal/timeline"
)

const summaryPrompt = `You are an expert meeting analyst. Summarize the following meeting by explaining what each speaker discussed at the given times.

Respond in markdown with exactly these sections:
## Summary
A few paragraphs covering the discussion.
## Key Points
- one bullet per key point
## Action Items
- one bullet per agreed action item

Meeting transcript, grouped by speaker:
---
%s
---`

// Summarize builds the per-speaker prompt payload from the timeline, calls
// the model and parses the sectioned response.
func (s *implSummarizer) Summarize(ctx context.Context, tl timeline.Timeline) (meeting.Summary, error) {
	if len(tl.Chronological) == 0 {
		return meeting.Summary{}, fmt.Errorf("nothing to summarize: timeline is empty")
	}
	if len(s.apiKeys) == 0 {
		return meeting.Summary{}, fmt.Errorf("no Gemini API keys configured")
	}

	grouped := tl.GroupedText()
	speakers := make([]string, 0, len(grouped))
	for speaker := range grouped {
		speakers = append(speakers, speaker)
	}
	sort.Strings(speakers)

	var payload strings.Builder
	for _, speaker := range speakers {
		fmt.Fprintf(&payload, "%s:\n%s\n\n", speaker, grouped[speaker])
	}

	raw, err := s.callGemini(ctx, fmt.Sprintf(summaryPrompt, payload.String()))
	if err != nil {
		return meeting.Summary{}, err
	}

	return parseSummary(raw), nil
}

// callGemini sends the prompt to Gemini and returns the raw markdown.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.apiKeys[s.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			return text.String(), nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

// parseSummary splits the model's markdown into the summary body, key points
// and action items. Unrecognized content falls into the summary body so
// nothing is lost on a sloppy response.
func parseSummary(raw string) meeting.Summary {
	var summary meeting.Summary
	section := "summary"
	var body []string

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			heading := strings.ToLower(strings.TrimLeft(trimmed, "# "))
			switch {
			case strings.Contains(heading, "key point"):
				section = "keypoints"
			case strings.Contains(heading, "action item"):
				section = "actions"
			case strings.Contains(heading, "summary"):
				section = "summary"
			}
			continue
		}

		bullet := ""
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			bullet = strings.TrimSpace(trimmed[2:])
		}

		switch section {
		case "keypoints":
			if bullet != "" {
				summary.KeyPoints = append(summary.KeyPoints, bullet)
			}
		case "actions":
			if bullet != "" {
				summary.ActionItems = append(summary.ActionItems, bullet)
			}
		default:
			if trimmed != "" {
				body = append(body, trimmed)
			}
		}
	}

	summary.Text = strings.Join(body, "\n")
	return summary
}
