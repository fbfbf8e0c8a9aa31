package processor

import (
	"context"

	"github.com/hoangnm2212/meetmerge/internal/timeline"
)

// Processor orchestrates the meeting pipeline: reconstruct sequences, merge,
// transcribe, assemble and summarize.
type Processor interface {
	// Process runs merge and transcription for every speaker in the meeting
	// and assembles the cross-speaker timeline. Failures are collected per
	// unit of work in the report; only a failure to reach the store at all
	// is returned as an error.
	Process(ctx context.Context, meetingID string) (*Report, error)

	// Assemble loads all persisted transcript segments for the meeting and
	// reassembles the chronological conversation.
	Assemble(ctx context.Context, meetingID string) (timeline.Timeline, error)

	// Summarize assembles the meeting timeline, generates the summary,
	// persists it and exports the docx documents.
	Summarize(ctx context.Context, meetingID string) error
}
