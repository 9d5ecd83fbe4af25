package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrPipelineUnavailable indicates runtime capture/ASR wiring is missing.
	ErrPipelineUnavailable = errors.New("audio capture and ASR pipeline not implemented")
	// ErrEmptyRecording indicates capture stopped with no usable audio; the
	// session treats this as a no-op rather than a failure.
	ErrEmptyRecording = errors.New("recording stopped with no captured audio")
	// ErrEmptyTranscript indicates the ASR backend completed but recognized no
	// usable speech.
	ErrEmptyTranscript = errors.New("no speech recognized; check microphone input or mute state")
)

// Recording is the buffered capture output handed to transcription.
type Recording struct {
	PCM           []byte
	Duration      time.Duration
	AudioDevice   string
	BytesCaptured int64
}

// Transcriber abstracts capture and ASR operations needed by session
// orchestration. Stop returns ErrEmptyRecording when the buffered audio is
// below the configured minimum duration.
type Transcriber interface {
	Start(context.Context) error
	Stop(context.Context) (Recording, error)
	Transcribe(context.Context, Recording) (string, error)
	Cancel(context.Context) error
}

// PlaceholderTranscriber is a no-op placeholder used in tests/fallback wiring.
type PlaceholderTranscriber struct{}

func (PlaceholderTranscriber) Start(context.Context) error {
	return nil
}

func (PlaceholderTranscriber) Stop(context.Context) (Recording, error) {
	return Recording{}, ErrPipelineUnavailable
}

func (PlaceholderTranscriber) Transcribe(context.Context, Recording) (string, error) {
	return "", ErrPipelineUnavailable
}

func (PlaceholderTranscriber) Cancel(context.Context) error {
	return nil
}
