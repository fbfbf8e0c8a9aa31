package summarizer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
	"github.com/hoangnm2212/meetmerge/internal/timeline"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// ExportDocx writes two documents into destDir: the meeting summary and the
// full chronological transcript.
func (s *implSummarizer) ExportDocx(tl timeline.Timeline, summary meeting.Summary, meetingID, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	summaryPath := filepath.Join(destDir, meetingID+"_summary.docx")
	if err := writeSummaryDocx(meetingID, summary, summaryPath); err != nil {
		return fmt.Errorf("write summary docx: %w", err)
	}

	transcriptPath := filepath.Join(destDir, meetingID+"_transcript.docx")
	if err := writeTranscriptDocx(meetingID, tl, transcriptPath); err != nil {
		return fmt.Errorf("write transcript docx: %w", err)
	}

	return nil
}

func writeSummaryDocx(meetingID string, summary meeting.Summary, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), "Meeting Summary: "+meetingID, true, 16)
	doc.AddParagraph("")

	for _, line := range splitLines(summary.Text) {
		addStyledRun(doc.AddParagraph(""), line, false, fontSize)
	}

	if len(summary.KeyPoints) > 0 {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "Key Points", true, 15)
		for _, kp := range summary.KeyPoints {
			addStyledRun(doc.AddParagraph(""), "• "+kp, false, fontSize)
		}
	}

	if len(summary.ActionItems) > 0 {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "Action Items", true, 15)
		for _, ai := range summary.ActionItems {
			addStyledRun(doc.AddParagraph(""), "• "+ai, false, fontSize)
		}
	}

	return doc.SaveTo(outputPath)
}

func writeTranscriptDocx(meetingID string, tl timeline.Timeline, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), "Meeting Transcript: "+meetingID, true, 16)
	doc.AddParagraph("")

	for _, entry := range tl.Chronological {
		p := doc.AddParagraph("")
		stamp := fmt.Sprintf("[%s] %s: ", entry.StartTime.Format("15:04:05"), entry.SpeakerID)
		p.AddText(stamp).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		p.AddText(entry.Text).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func splitLines(text string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			if line := text[start:i]; line != "" {
				out = append(out, line)
			}
			start = i + 1
		}
	}
	return out
}
