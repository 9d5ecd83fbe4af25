package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quillvoice/quill/internal/history"
)

// RenderHistory formats recorded sessions for terminal output, newest last.
func RenderHistory(records []history.Record) string {
	if len(records) == 0 {
		return TimestampStyle.Render("no recorded sessions") + "\n"
	}

	var b strings.Builder
	for i, record := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(TimestampStyle.Render(record.Timestamp.Local().Format(time.RFC3339)))
		b.WriteString("\n")
		if record.Transcription != record.Refined && record.Transcription != "" {
			b.WriteString("  ")
			b.WriteString(TranscriptionStyle.Render(record.Transcription))
			b.WriteString("\n")
		}
		b.WriteString("  ")
		b.WriteString(RefinedStyle.Render(record.Refined))
		b.WriteString("\n")
		if meta := renderMetadata(record.Metadata); meta != "" {
			b.WriteString("  ")
			b.WriteString(MetadataStyle.Render(meta))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(CountStyle.Render(fmt.Sprintf("%d session(s)", len(records))))
	b.WriteString("\n")
	return b.String()
}

func renderMetadata(metadata map[string]any) string {
	if len(metadata) == 0 {
		return ""
	}

	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, metadata[key]))
	}
	return strings.Join(parts, " ")
}
