// Native whisper.cpp engine backed by the CGO bindings. libwhisper.a and
// whisper.h must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH.

package asr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// WhisperEngine transcribes with an in-process whisper.cpp model. The model
// is loaded once at construction and reused for every inference.
type WhisperEngine struct {
	mu       sync.Mutex
	model    whisperlib.Model
	language string
}

// NewWhisperEngine loads the ggml model at modelPath.
func NewWhisperEngine(modelPath, language string) (*WhisperEngine, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("whisper model path must not be empty")
	}
	if language == "" {
		language = "en"
	}

	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %s: %w", modelPath, err)
	}

	return &WhisperEngine{model: model, language: language}, nil
}

// Transcribe runs batch inference over the full recording. A fresh whisper
// context is created per call because contexts are not reusable across
// inferences.
func (e *WhisperEngine) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	samples := pcmToFloat32(pcm)
	if len(samples) == 0 {
		return "", nil
	}

	wctx, err := e.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create whisper context: %w", err)
	}
	if err := wctx.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("set whisper language %s: %w", e.language, err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read whisper segment: %w", err)
		}
		text := strings.TrimSpace(segment.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}

// Close releases the loaded model.
func (e *WhisperEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil
	}
	err := e.model.Close()
	e.model = nil
	return err
}
