// Package doctor runs runtime readiness diagnostics for config, tools, audio,
// and the ASR backend.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/quillvoice/quill/internal/audio"
	"github.com/quillvoice/quill/internal/config"
	"github.com/quillvoice/quill/internal/history"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkEnv("XDG_SESSION_TYPE", func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), "wayland")
	}, "session type is wayland", "expected XDG_SESSION_TYPE=wayland"))

	checks = append(checks, checkEnv("HYPRLAND_INSTANCE_SIGNATURE", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "Hyprland session detected", "HYPRLAND_INSTANCE_SIGNATURE is empty"))

	checks = append(checks, checkCommand(cfg.Config.Clipboard.Argv, "clipboard_cmd"))

	if cfg.Config.Paste.Enable {
		if len(cfg.Config.PasteCmd.Argv) > 0 {
			checks = append(checks, checkCommand(cfg.Config.PasteCmd.Argv, "paste_cmd"))
		} else {
			checks = append(checks, checkBinary("hyprctl", "default paste path requires hyprctl"))
		}
	}

	checks = append(checks, checkAudioSelection(cfg.Config))
	checks = append(checks, checkASRReady(cfg.Config))
	checks = append(checks, checkHistoryWritable(cfg.Config))

	return Report{Checks: checks}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkASRReady validates the configured inference backend: model file for
// the native bindings, health endpoint for whisper-server.
func checkASRReady(cfg config.Config) Check {
	switch strings.ToLower(strings.TrimSpace(cfg.ASR.Backend)) {
	case config.BackendWhisper:
		modelPath := strings.TrimSpace(cfg.ASR.ModelPath)
		if modelPath == "" {
			return Check{Name: "asr.model", Pass: false, Message: "asr.model_path is not set"}
		}
		info, err := os.Stat(modelPath)
		if err != nil {
			return Check{Name: "asr.model", Pass: false, Message: fmt.Sprintf("model not readable: %v", err)}
		}
		if info.IsDir() {
			return Check{Name: "asr.model", Pass: false, Message: fmt.Sprintf("%q is a directory, expected a ggml model file", modelPath)}
		}
		return Check{Name: "asr.model", Pass: true, Message: fmt.Sprintf("model %q (%d bytes)", modelPath, info.Size())}

	case config.BackendServer:
		base := strings.TrimRight(strings.TrimSpace(cfg.ASR.ServerURL), "/")
		if base == "" {
			return Check{Name: "asr.server", Pass: false, Message: "asr.server_url is empty"}
		}
		client := http.Client{Timeout: 2 * time.Second}
		resp, err := client.Get(base + "/health")
		if err != nil {
			return Check{Name: "asr.server", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return Check{Name: "asr.server", Pass: false, Message: fmt.Sprintf("HTTP %d from %s/health", resp.StatusCode, base)}
		}
		return Check{Name: "asr.server", Pass: true, Message: fmt.Sprintf("whisper-server ready at %s", base)}

	default:
		return Check{Name: "asr.backend", Pass: false, Message: fmt.Sprintf("unknown backend %q", cfg.ASR.Backend)}
	}
}

// checkHistoryWritable verifies the history location can accept appends.
func checkHistoryWritable(cfg config.Config) Check {
	path := strings.TrimSpace(cfg.History.Path)
	if path == "" {
		resolved, err := history.DefaultPath()
		if err != nil {
			return Check{Name: "history.path", Pass: false, Message: err.Error()}
		}
		path = resolved
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Check{Name: "history.path", Pass: false, Message: fmt.Sprintf("cannot create %q: %v", dir, err)}
	}

	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Check{Name: "history.path", Pass: false, Message: fmt.Sprintf("%q is not writable: %v", dir, err)}
	}
	probeName := probe.Name()
	_ = probe.Close()
	_ = os.Remove(probeName)

	return Check{Name: "history.path", Pass: true, Message: fmt.Sprintf("writable at %q", path)}
}
