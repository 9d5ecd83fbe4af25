package session

import (
	"context"

	"github.com/quillvoice/quill/internal/history"
)

// Sink persists and delivers a refined transcript when a session completes:
// history append, clipboard, optional paste.
type Sink interface {
	RecordAndDeliver(ctx context.Context, transcription string, refined string, metadata map[string]any) (history.Record, error)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(context.Context, string, string, map[string]any) (history.Record, error)

func (f SinkFunc) RecordAndDeliver(ctx context.Context, transcription string, refined string, metadata map[string]any) (history.Record, error) {
	return f(ctx, transcription, refined, metadata)
}
