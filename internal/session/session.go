// Package session coordinates dictation lifecycle state, actions, and the
// transcribe/refine/deliver pipeline.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quillvoice/quill/internal/fsm"
	"github.com/quillvoice/quill/internal/history"
	"github.com/quillvoice/quill/internal/ipc"
)

type action int

const (
	actionStop action = iota + 1
	actionCancel
)

// Result is the complete lifecycle output returned by one Run invocation.
type Result struct {
	State         fsm.State
	SessionID     string
	Transcript    string
	Refined       string
	Record        *history.Record
	Cancelled     bool
	NoOp          bool
	Err           error
	AudioDevice   string
	BytesCaptured int64
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Indicator is the session-facing subset of presentation behavior. The
// presentation layer renders controller state and owns no business state.
type Indicator interface {
	ShowRecording(context.Context)
	ShowProcessing(context.Context)
	ShowError(context.Context, string)
	CueStop(context.Context)
	CueComplete(context.Context)
	CueCancel(context.Context)
	Hide(context.Context)
}

// noopIndicator preserves session flow when no indicator is wired.
type noopIndicator struct{}

func (noopIndicator) ShowRecording(context.Context)     {}
func (noopIndicator) ShowProcessing(context.Context)    {}
func (noopIndicator) ShowError(context.Context, string) {}
func (noopIndicator) CueStop(context.Context)           {}
func (noopIndicator) CueComplete(context.Context)       {}
func (noopIndicator) CueCancel(context.Context)         {}
func (noopIndicator) Hide(context.Context)              {}

// Controller orchestrates session state transitions and side effects. It is
// the sole writer of the state value; IPC handlers only enqueue actions.
type Controller struct {
	logger     *slog.Logger
	transcribe Transcriber
	refine     Refiner
	sink       Sink
	indicator  Indicator

	mu    sync.RWMutex
	state fsm.State

	actions chan action
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	transcriber Transcriber,
	refiner Refiner,
	sink Sink,
	indicator Indicator,
) *Controller {
	if transcriber == nil {
		transcriber = PlaceholderTranscriber{}
	}
	if refiner == nil {
		refiner = passthroughRefiner{}
	}
	if sink == nil {
		sink = SinkFunc(func(_ context.Context, transcription, refined string, metadata map[string]any) (history.Record, error) {
			return history.Record{
				Timestamp:     time.Now(),
				Transcription: transcription,
				Refined:       refined,
				Metadata:      metadata,
			}, nil
		})
	}
	if indicator == nil {
		indicator = noopIndicator{}
	}

	return &Controller{
		logger:     logger,
		transcribe: transcriber,
		refine:     refiner,
		sink:       sink,
		indicator:  indicator,
		state:      fsm.StateIdle,
		actions:    make(chan action, 1),
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// transition applies one FSM event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Run executes one owner lifecycle from start to stop/cancel/failure
// completion. At most one pipeline runs per controller instance; stop
// requests arriving while processing are refused rather than queued.
func (c *Controller) Run(ctx context.Context) Result {
	result := Result{StartedAt: time.Now(), SessionID: uuid.NewString()}
	finish := func() Result {
		result.State = c.State()
		result.FinishedAt = time.Now()
		return result
	}

	if err := c.transition(fsm.EventStart); err != nil {
		result.Err = err
		return finish()
	}

	c.indicator.ShowRecording(ctx)

	if err := c.transcribe.Start(ctx); err != nil {
		c.indicator.ShowError(ctx, "Unable to start recording")
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 800*time.Millisecond)
		defer cancel()
		c.indicator.Hide(cleanupCtx)
	}()

	select {
	case <-ctx.Done():
		_ = c.transcribe.Cancel(context.Background())
		c.indicator.CueCancel(context.Background())
		c.indicator.ShowError(context.Background(), "Cancelled")
		c.toErrorAndReset()
		result.Err = ctx.Err()
		return finish()
	case a := <-c.actions:
		switch a {
		case actionCancel:
			_ = c.transcribe.Cancel(context.Background())
			c.indicator.CueCancel(context.Background())
			_ = c.transition(fsm.EventCancel)
			result.Cancelled = true
			return finish()
		case actionStop:
			return c.runPipeline(ctx, finish, &result)
		default:
			c.toErrorAndReset()
			result.Err = fmt.Errorf("unknown action %d", a)
			return finish()
		}
	}
}

// runPipeline performs the stop half of a session: stop capture, gate empty
// recordings, transcribe, refine, deliver.
func (c *Controller) runPipeline(ctx context.Context, finish func() Result, result *Result) Result {
	recording, err := c.transcribe.Stop(ctx)
	result.AudioDevice = recording.AudioDevice
	result.BytesCaptured = recording.BytesCaptured

	if errors.Is(err, ErrEmptyRecording) {
		// Nothing worth transcribing: back to idle without entering the
		// processing state, no record appended.
		c.indicator.CueCancel(context.Background())
		_ = c.transition(fsm.EventCancel)
		result.NoOp = true
		c.logInfo("recording stopped empty; skipping pipeline")
		return finish()
	}
	if err != nil {
		c.indicator.ShowError(context.Background(), "Unable to stop recording")
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}
	c.indicator.CueStop(context.Background())

	if err := c.transition(fsm.EventStop); err != nil {
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}
	c.indicator.ShowProcessing(ctx)

	transcript, err := c.transcribe.Transcribe(ctx, recording)
	if err != nil {
		c.indicator.ShowError(context.Background(), "Speech recognition failed")
		c.toErrorAndReset()
		result.Err = fmt.Errorf("transcribe recording: %w", err)
		return finish()
	}
	if strings.TrimSpace(transcript) == "" {
		c.indicator.ShowError(context.Background(), "No speech detected")
		c.toErrorAndReset()
		result.Err = ErrEmptyTranscript
		return finish()
	}
	result.Transcript = transcript

	refined := c.refine.Refine(transcript)
	result.Refined = refined

	metadata := map[string]any{
		"session_id":     result.SessionID,
		"audio_device":   recording.AudioDevice,
		"duration_ms":    recording.Duration.Milliseconds(),
		"bytes_captured": recording.BytesCaptured,
	}

	record, err := c.sink.RecordAndDeliver(ctx, transcript, refined, metadata)
	if err != nil {
		c.indicator.ShowError(context.Background(), "Output dispatch failed")
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}
	result.Record = &record
	c.indicator.CueComplete(context.Background())

	if err := c.transition(fsm.EventProcessed); err != nil {
		result.Err = err
		return finish()
	}
	return finish()
}

// Handle serves IPC commands for the active owner session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(c.State()), Message: "status"}
	case "toggle":
		return c.requestStop("toggle")
	case "stop":
		return c.requestStop("stop")
	case "cancel":
		return c.requestCancel()
	case "jargon":
		return c.addJargon(req)
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// requestStop enqueues a stop action when state permits it.
func (c *Controller) requestStop(source string) ipc.Response {
	state := c.State()
	if state == fsm.StateProcessing {
		return ipc.Response{OK: false, State: string(state), Error: "already processing"}
	}
	if state != fsm.StateRecording {
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot %s from state %s", source, state)}
	}

	select {
	case c.actions <- actionStop:
		return ipc.Response{OK: true, State: string(state), Message: "stop requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "stop already requested"}
	}
}

// requestCancel enqueues a cancel action when state permits it.
func (c *Controller) requestCancel() ipc.Response {
	state := c.State()
	if state == fsm.StateProcessing {
		return ipc.Response{OK: false, State: string(state), Error: "cannot cancel while processing"}
	}
	if state != fsm.StateRecording {
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot cancel from state %s", state)}
	}

	select {
	case c.actions <- actionCancel:
		return ipc.Response{OK: true, State: string(state), Message: "cancel requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "cancel already requested"}
	}
}

// addJargon forwards a jargon entry into the live refiner table.
func (c *Controller) addJargon(req ipc.Request) ipc.Response {
	term := strings.TrimSpace(req.Term)
	canonical := strings.TrimSpace(req.Canonical)
	if term == "" || canonical == "" {
		return ipc.Response{OK: false, State: string(c.State()), Error: "jargon requires term and canonical form"}
	}
	c.refine.AddCustomJargon(term, canonical)
	return ipc.Response{OK: true, State: string(c.State()), Message: fmt.Sprintf("jargon %q -> %q", term, canonical)}
}

// toErrorAndReset transitions to error and back to idle best-effort.
func (c *Controller) toErrorAndReset() {
	_ = c.transition(fsm.EventFail)
	_ = c.transition(fsm.EventReset)
}

func (c *Controller) logInfo(message string) {
	if c.logger == nil {
		return
	}
	c.logger.Info(message)
}
