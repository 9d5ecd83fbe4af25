// Package config resolves, parses, validates, and defaults quill configuration.
package config

// Config is the fully materialized runtime configuration used by quill.
type Config struct {
	Audio     AudioConfig
	ASR       ASRConfig
	Refiner   RefinerConfig
	Recording RecordingConfig
	Paste     PasteConfig
	Indicator IndicatorConfig
	Clipboard CommandConfig
	PasteCmd  CommandConfig
	History   HistoryConfig
	Debug     DebugConfig
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// ASRConfig selects and tunes the speech-to-text engine.
type ASRConfig struct {
	Backend   string
	ModelPath string
	ServerURL string
	Language  string
	TimeoutMS int
}

// RefinerConfig points at the optional user jargon table.
type RefinerConfig struct {
	JargonFile string
}

// RecordingConfig gates recordings too short to transcribe.
type RecordingConfig struct {
	MinMS int
}

// PasteConfig controls post-commit paste behavior.
type PasteConfig struct {
	Enable   bool
	Shortcut string
}

// IndicatorConfig controls visual indicator and audio cue behavior.
type IndicatorConfig struct {
	Enable            bool
	Backend           string
	DesktopAppName    string
	SoundEnable       bool
	SoundStartFile    string
	SoundStopFile     string
	SoundCompleteFile string
	SoundCancelFile   string
	Height            int
	ErrorTimeoutMS    int
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// HistoryConfig overrides the session history file location.
type HistoryConfig struct {
	Path string
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	EnableAudioDump bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
