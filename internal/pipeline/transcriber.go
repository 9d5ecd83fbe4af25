// Package pipeline owns one end-to-end capture -> ASR pipeline instance.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/quillvoice/quill/internal/asr"
	"github.com/quillvoice/quill/internal/audio"
	"github.com/quillvoice/quill/internal/config"
	"github.com/quillvoice/quill/internal/session"
)

// Transcriber records from the selected Pulse source and transcribes the
// captured buffer in one batch once recording stops. It implements
// session.Transcriber.
type Transcriber struct {
	cfg    config.Config
	logger *slog.Logger
	engine asr.Engine

	mu        sync.Mutex
	started   bool
	selection audio.Selection
	capture   *audio.Capture
	drained   chan struct{}
}

// NewTranscriber constructs a pipeline transcriber from runtime config and a
// ready ASR engine.
func NewTranscriber(cfg config.Config, logger *slog.Logger, engine asr.Engine) *Transcriber {
	return &Transcriber{cfg: cfg, logger: logger, engine: engine}
}

// Start resolves device selection and begins audio capture.
func (t *Transcriber) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return fmt.Errorf("transcriber already started")
	}
	if t.engine == nil {
		return session.ErrPipelineUnavailable
	}

	selection, err := audio.SelectDevice(ctx, t.cfg.Audio.Input, t.cfg.Audio.Fallback)
	if err != nil {
		return err
	}
	t.selection = selection
	if selection.Warning != "" {
		t.logWarn(selection.Warning)
	}

	capture, err := audio.StartCapture(ctx, selection.Device)
	if err != nil {
		return err
	}
	t.capture = capture

	// The capture chunk channel must be drained or Pulse writes stall. The
	// full recording is read back from the capture's raw buffer on stop.
	t.drained = make(chan struct{})
	go func(c *audio.Capture, done chan struct{}) {
		defer close(done)
		for range c.Chunks() {
		}
	}(capture, t.drained)

	t.started = true
	return nil
}

// Stop halts capture and returns the complete recording. Recordings shorter
// than recording.min_ms come back with session.ErrEmptyRecording so the
// caller can skip transcription.
func (t *Transcriber) Stop(_ context.Context) (session.Recording, error) {
	t.mu.Lock()
	started := t.started
	capture := t.capture
	drained := t.drained
	selection := t.selection
	t.started = false
	t.mu.Unlock()

	if !started || capture == nil {
		return session.Recording{}, session.ErrPipelineUnavailable
	}

	_ = capture.Stop()
	if drained != nil {
		<-drained
	}

	rawPCM := capture.RawPCM()
	t.writeDebugAudio(rawPCM)

	recording := session.Recording{
		PCM:           rawPCM,
		Duration:      pcmDuration(len(rawPCM)),
		AudioDevice:   describeDevice(selection.Device),
		BytesCaptured: capture.BytesCaptured(),
	}

	minDuration := time.Duration(t.cfg.Recording.MinMS) * time.Millisecond
	if len(rawPCM) == 0 || recording.Duration < minDuration {
		return recording, session.ErrEmptyRecording
	}

	return recording, nil
}

// Transcribe runs batch inference over a stopped recording, bounded by
// asr.timeout_ms.
func (t *Transcriber) Transcribe(ctx context.Context, recording session.Recording) (string, error) {
	if t.engine == nil {
		return "", session.ErrPipelineUnavailable
	}

	timeout := time.Duration(t.cfg.ASR.TimeoutMS) * time.Millisecond
	inferCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := t.engine.Transcribe(inferCtx, recording.PCM)
	if err != nil {
		return "", err
	}
	return text, nil
}

// Cancel stops capture immediately and discards the buffer.
func (t *Transcriber) Cancel(_ context.Context) error {
	t.mu.Lock()
	capture := t.capture
	drained := t.drained
	t.started = false
	t.mu.Unlock()

	if capture != nil {
		_ = capture.Stop()
		if drained != nil {
			<-drained
		}
		t.writeDebugAudio(capture.RawPCM())
	}
	return nil
}

// pcmDuration converts a 16kHz mono s16le byte count to wall duration.
func pcmDuration(byteCount int) time.Duration {
	bytesPerSecond := asr.SampleRate * asr.Channels * asr.BitsPerSample / 8
	return time.Duration(byteCount) * time.Second / time.Duration(bytesPerSecond)
}

// describeDevice formats device metadata for logs/session results.
func describeDevice(device audio.Device) string {
	description := strings.TrimSpace(device.Description)
	id := strings.TrimSpace(device.ID)
	if description == "" {
		return id
	}
	if id == "" {
		return description
	}
	return fmt.Sprintf("%s (%s)", description, id)
}

func (t *Transcriber) logWarn(message string) {
	if t.logger == nil {
		return
	}
	t.logger.Warn(message)
}

// writeDebugAudio writes raw PCM to WAV when debug.audio_dump is enabled.
func (t *Transcriber) writeDebugAudio(rawPCM []byte) {
	if !t.cfg.Debug.EnableAudioDump || len(rawPCM) == 0 {
		return
	}

	path, err := debugAudioPath()
	if err != nil {
		t.logWarn(fmt.Sprintf("unable to create debug audio dump: %v", err))
		return
	}

	wav := asr.EncodeWAV(rawPCM, asr.SampleRate, asr.Channels)
	if err := os.WriteFile(path, wav, 0o600); err != nil {
		t.logWarn(fmt.Sprintf("unable to write debug audio dump: %v", err))
	}
}

// debugAudioPath returns a timestamped WAV path under state/quill/debug.
func debugAudioPath() (string, error) {
	stateDir := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for state: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}

	debugDir := filepath.Join(stateDir, "quill", "debug")
	if err := os.MkdirAll(debugDir, 0o700); err != nil {
		return "", fmt.Errorf("create debug dir: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405.000")
	return filepath.Join(debugDir, fmt.Sprintf("audio-%s.wav", timestamp)), nil
}
