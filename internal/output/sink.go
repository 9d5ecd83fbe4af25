package output

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillvoice/quill/internal/history"
)

// Sink persists a finished session to the history store and delivers the
// refined text through the committer. It implements session.Sink.
//
// The history append happens first and is never rolled back: a clipboard
// failure still leaves the record on disk for `quill history`.
type Sink struct {
	store        *history.Store
	committer    *Committer
	logger       *slog.Logger
	baseMetadata map[string]any
}

// NewSink builds a sink over a history store and committer. baseMetadata is
// merged under each record's per-session metadata.
func NewSink(store *history.Store, committer *Committer, logger *slog.Logger, baseMetadata map[string]any) *Sink {
	return &Sink{
		store:        store,
		committer:    committer,
		logger:       logger,
		baseMetadata: baseMetadata,
	}
}

// RecordAndDeliver appends the session record and commits the refined text.
func (s *Sink) RecordAndDeliver(ctx context.Context, transcription, refined string, metadata map[string]any) (history.Record, error) {
	merged := make(map[string]any, len(s.baseMetadata)+len(metadata))
	for key, value := range s.baseMetadata {
		merged[key] = value
	}
	for key, value := range metadata {
		merged[key] = value
	}

	record := history.Record{
		Timestamp:     time.Now().UTC(),
		Transcription: transcription,
		Refined:       refined,
		Metadata:      merged,
	}

	if s.store != nil {
		if err := s.store.Append(record); err != nil {
			return history.Record{}, fmt.Errorf("append session history: %w", err)
		}
	}

	if s.committer != nil {
		if err := s.committer.Commit(ctx, refined); err != nil {
			// The record is already persisted; surface the delivery failure.
			return record, fmt.Errorf("deliver refined text: %w", err)
		}
	}

	return record, nil
}
