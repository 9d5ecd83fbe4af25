package config

import (
	"fmt"
	"strconv"
	"strings"
)

const legacyFormatWarning = "legacy key=value config format is deprecated; migrate to JSONC"

// Parse reads configuration content as JSONC (preferred) or legacy key=value
// format. JSONC is selected when the first non-whitespace character is `{`.
func Parse(content string, base Config) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		validatedWarnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, validatedWarnings, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		return parseJSONC(content, base)
	}

	cfg, warnings, err := parseLegacy(content, base)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append([]Warning{{Message: legacyFormatWarning}}, warnings...)
	return cfg, warnings, nil
}

// parseLegacy reads `key = value` lines with dotted section keys. Unknown
// keys warn rather than fail so stale configs keep loading.
func parseLegacy(content string, base Config) (Config, []Warning, error) {
	cfg := base
	warnings := make([]Warning, 0)

	for i, rawLine := range strings.Split(content, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return Config{}, nil, fmt.Errorf("line %d: expected key=value, got %q", lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if err := applyLegacyKey(&cfg, key, value); err != nil {
			if strings.Contains(err.Error(), "unknown config key") {
				warnings = append(warnings, Warning{Line: lineNo, Message: err.Error()})
				continue
			}
			return Config{}, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)
	return cfg, warnings, nil
}

func applyLegacyKey(cfg *Config, key, value string) error {
	switch key {
	case "audio.input":
		cfg.Audio.Input = value
	case "audio.fallback":
		cfg.Audio.Fallback = value
	case "asr.backend":
		cfg.ASR.Backend = value
	case "asr.model_path":
		cfg.ASR.ModelPath = value
	case "asr.server_url":
		cfg.ASR.ServerURL = value
	case "asr.language":
		cfg.ASR.Language = value
	case "asr.timeout_ms":
		return applyLegacyInt(key, value, &cfg.ASR.TimeoutMS)
	case "refiner.jargon_file":
		cfg.Refiner.JargonFile = value
	case "recording.min_ms":
		return applyLegacyInt(key, value, &cfg.Recording.MinMS)
	case "paste.enable":
		return applyLegacyBool(key, value, &cfg.Paste.Enable)
	case "paste.shortcut":
		cfg.Paste.Shortcut = value
	case "indicator.enable":
		return applyLegacyBool(key, value, &cfg.Indicator.Enable)
	case "indicator.backend":
		cfg.Indicator.Backend = value
	case "indicator.sound_enable":
		return applyLegacyBool(key, value, &cfg.Indicator.SoundEnable)
	case "clipboard_cmd":
		argv, err := parseArgv(value)
		if err != nil {
			return fmt.Errorf("invalid clipboard_cmd: %w", err)
		}
		cfg.Clipboard = CommandConfig{Raw: value, Argv: argv}
	case "paste_cmd":
		argv, err := parseArgv(value)
		if err != nil {
			return fmt.Errorf("invalid paste_cmd: %w", err)
		}
		cfg.PasteCmd = CommandConfig{Raw: value, Argv: argv}
	case "history.path":
		cfg.History.Path = value
	case "debug.audio_dump":
		return applyLegacyBool(key, value, &cfg.Debug.EnableAudioDump)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func applyLegacyInt(key, value string, target *int) error {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	*target = parsed
	return nil
}

func applyLegacyBool(key, value string, target *bool) error {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	*target = parsed
	return nil
}
