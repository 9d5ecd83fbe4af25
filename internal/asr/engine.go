// Package asr runs speech-to-text inference over captured PCM buffers. Two
// engines are available: native whisper.cpp bindings and a whisper-server
// HTTP endpoint.
package asr

import "context"

// Audio captured by the recorder is 16 kHz mono 16-bit signed little-endian.
const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
)

// Engine transcribes one complete recording per call. Implementations are
// safe for sequential reuse; a single dictation session never runs two
// inferences at once.
type Engine interface {
	Transcribe(ctx context.Context, pcm []byte) (string, error)
	Close() error
}
