package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	backend := strings.ToLower(strings.TrimSpace(cfg.ASR.Backend))
	switch backend {
	case BackendWhisper:
		if strings.TrimSpace(cfg.ASR.ModelPath) == "" {
			warnings = append(warnings, Warning{Message: "asr.model_path is not set; transcription will fail until a ggml model is configured"})
		}
	case BackendServer:
		if strings.TrimSpace(cfg.ASR.ServerURL) == "" {
			return nil, fmt.Errorf("asr.server_url must not be empty when asr.backend=server")
		}
	case "":
		return nil, fmt.Errorf("asr.backend must not be empty")
	default:
		return nil, fmt.Errorf("asr.backend must be one of: %s, %s", BackendWhisper, BackendServer)
	}

	if strings.TrimSpace(cfg.ASR.Language) == "" {
		return nil, fmt.Errorf("asr.language must not be empty")
	}
	if cfg.ASR.TimeoutMS <= 0 {
		return nil, fmt.Errorf("asr.timeout_ms must be > 0")
	}
	if cfg.Recording.MinMS < 0 {
		return nil, fmt.Errorf("recording.min_ms must be >= 0")
	}

	indicatorBackend := strings.ToLower(strings.TrimSpace(cfg.Indicator.Backend))
	if indicatorBackend == "" {
		return nil, fmt.Errorf("indicator.backend must not be empty")
	}
	if indicatorBackend != "hypr" && indicatorBackend != "desktop" {
		return nil, fmt.Errorf("indicator.backend must be one of: hypr, desktop")
	}
	if indicatorBackend == "desktop" && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.backend=desktop")
	}
	if cfg.Indicator.Height <= 0 {
		return nil, fmt.Errorf("indicator.height must be > 0")
	}
	if cfg.Indicator.ErrorTimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.error_timeout_ms must be >= 0")
	}

	if len(cfg.Clipboard.Argv) == 0 {
		return nil, fmt.Errorf("clipboard_cmd must not be empty")
	}
	if cfg.Paste.Enable && cfg.PasteCmd.Raw != "" && len(cfg.PasteCmd.Argv) == 0 {
		return nil, fmt.Errorf("paste_cmd is configured but empty")
	}
	if cfg.Paste.Enable && len(cfg.PasteCmd.Argv) == 0 && strings.TrimSpace(cfg.Paste.Shortcut) == "" {
		return nil, fmt.Errorf("paste.shortcut must not be empty when paste.enable=true and paste_cmd is unset")
	}

	return warnings, nil
}
