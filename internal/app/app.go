package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quillvoice/quill/internal/asr"
	"github.com/quillvoice/quill/internal/audio"
	"github.com/quillvoice/quill/internal/cli"
	"github.com/quillvoice/quill/internal/config"
	"github.com/quillvoice/quill/internal/doctor"
	"github.com/quillvoice/quill/internal/history"
	"github.com/quillvoice/quill/internal/indicator"
	"github.com/quillvoice/quill/internal/ipc"
	"github.com/quillvoice/quill/internal/logging"
	"github.com/quillvoice/quill/internal/output"
	"github.com/quillvoice/quill/internal/pipeline"
	"github.com/quillvoice/quill/internal/refiner"
	"github.com/quillvoice/quill/internal/session"
	"github.com/quillvoice/quill/internal/ui"
	"github.com/quillvoice/quill/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("quill"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("quill"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintln(r.Stderr, ui.WarningStyle.Render("warning: "+msg))
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandHistory:
		return r.commandHistory(cfgLoaded.Config, parsed.HistoryClear)
	case cli.CommandJargon:
		return r.commandJargonAdd(ctx, cfgLoaded.Config, parsed.JargonTerm, parsed.JargonCanonical)
	case cli.CommandStop:
		return r.forwardOrFail(ctx, ipc.Request{Command: "stop"})
	case cli.CommandCancel:
		return r.forwardOrFail(ctx, ipc.Request{Command: "cancel"})
	case cli.CommandToggle:
		return r.commandToggle(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}

	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: "status"})
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "idle"
		}
		fmt.Fprintln(r.Stdout, resp.State)
		return 0
	}

	fmt.Fprintln(r.Stdout, "idle")
	return 0
}

func (r Runner) commandHistory(cfg config.Config, clear bool) int {
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	if clear {
		if err := store.Clear(); err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintln(r.Stdout, "history cleared")
		return 0
	}

	records, err := store.List()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprint(r.Stdout, ui.RenderHistory(records))
	return 0
}

// commandJargonAdd persists the rule and, when a session is live, also
// forwards it so the running refiner picks it up immediately.
func (r Runner) commandJargonAdd(ctx context.Context, cfg config.Config, term, canonical string) int {
	path, err := jargonPath(cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if err := refiner.AppendJargonEntry(path, term, canonical); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	if socketPath, err := ipc.RuntimeSocketPath(); err == nil {
		if _, handled, err := tryForward(ctx, socketPath, ipc.Request{
			Command:   "jargon",
			Term:      term,
			Canonical: canonical,
		}); handled && err != nil {
			fmt.Fprintf(r.Stderr, "warning: running session did not accept rule: %v\n", err)
		}
	}

	fmt.Fprintf(r.Stdout, "added jargon rule %q -> %q (%s)\n", term, canonical, path)
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, req ipc.Request) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, req)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no active quill session")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

func (r Runner) commandToggle(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: "toggle"})
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.Message != "" {
			fmt.Fprintln(r.Stdout, resp.Message)
		}
		return 0
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			resp, _, forwardErr := tryForward(ctx, socketPath, ipc.Request{Command: "toggle"})
			if forwardErr != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", forwardErr)
				return 1
			}
			if resp.Message != "" {
				fmt.Fprintln(r.Stdout, resp.Message)
			}
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	controller, buildErr := buildController(cfg, logger)
	if buildErr != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", buildErr)
		return 1
	}

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	result := controller.Run(ctx)
	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logSessionResult(logger, result)

	if result.Cancelled || result.NoOp {
		fmt.Fprintln(r.Stdout, "cancelled")
		return 0
	}
	if result.Err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", result.Err)
		return 1
	}
	if strings.TrimSpace(result.Refined) != "" {
		fmt.Fprintln(r.Stdout, strings.TrimSpace(result.Refined))
	}

	return 0
}

// buildController assembles the full recording pipeline for an owning session.
func buildController(cfg config.Config, logger *slog.Logger) (*session.Controller, error) {
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}

	jargon, err := loadJargon(cfg, logger)
	if err != nil {
		return nil, err
	}
	textRefiner := refiner.New(jargon)

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	baseMetadata := map[string]any{
		"asr_backend":  cfg.ASR.Backend,
		"asr_language": cfg.ASR.Language,
	}
	switch cfg.ASR.Backend {
	case config.BackendWhisper:
		baseMetadata["asr_model"] = cfg.ASR.ModelPath
	case config.BackendServer:
		baseMetadata["asr_server"] = cfg.ASR.ServerURL
	}

	transcriber := pipeline.NewTranscriber(cfg, logger, engine)
	committer := output.NewCommitter(cfg, logger)
	sink := output.NewSink(store, committer, logger, baseMetadata)
	indicatorCtl := indicator.NewHyprNotify(cfg.Indicator, logger)

	return session.NewController(logger, transcriber, textRefiner, sink, indicatorCtl), nil
}

// buildEngine returns nil when the whisper model path is unset; the pipeline
// then reports the session as unavailable instead of failing at startup.
func buildEngine(cfg config.Config) (asr.Engine, error) {
	switch cfg.ASR.Backend {
	case config.BackendWhisper:
		if cfg.ASR.ModelPath == "" {
			return nil, nil
		}
		return asr.NewWhisperEngine(cfg.ASR.ModelPath, cfg.ASR.Language)
	case config.BackendServer:
		return asr.NewServerEngine(cfg.ASR.ServerURL, cfg.ASR.Language)
	default:
		return nil, fmt.Errorf("unknown asr backend %q", cfg.ASR.Backend)
	}
}

func loadJargon(cfg config.Config, logger *slog.Logger) (map[string]string, error) {
	path, err := jargonPath(cfg)
	if err != nil {
		return nil, nil
	}
	entries, err := refiner.LoadJargonFile(path)
	if err != nil {
		logger.Warn("load jargon file failed", "path", path, "error", err.Error())
		return nil, nil
	}
	return entries, nil
}

func jargonPath(cfg config.Config) (string, error) {
	if cfg.Refiner.JargonFile != "" {
		return cfg.Refiner.JargonFile, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "quill", "jargon.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve jargon file path: %w", err)
	}
	return filepath.Join(home, ".config", "quill", "jargon.yaml"), nil
}

func openStore(cfg config.Config) (*history.Store, error) {
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return history.NewStore(path), nil
}

func logSessionResult(logger *slog.Logger, result session.Result) {
	if logger == nil {
		return
	}
	fields := []any{
		"state", result.State,
		"session_id", result.SessionID,
		"cancelled", result.Cancelled,
		"no_op", result.NoOp,
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		"audio_device", result.AudioDevice,
		"bytes_captured", result.BytesCaptured,
		"transcript_length", len(result.Transcript),
		"refined_length", len(result.Refined),
	}

	if result.Err != nil {
		logger.Error("session failed", append(fields, "error", result.Err.Error())...)
		return
	}
	logger.Info("session complete", fields...)
}

func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, req, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if ipc.IsUnreachable(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}
