package config

// BackendWhisper runs inference in-process through the whisper.cpp bindings;
// BackendServer talks to a whisper-server instance over HTTP.
const (
	BackendWhisper = "whisper"
	BackendServer  = "server"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	clipboard := "wl-copy --trim-newline"

	return Config{
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		ASR: ASRConfig{
			Backend:   BackendWhisper,
			ModelPath: "",
			ServerURL: "http://127.0.0.1:8080",
			Language:  "en",
			TimeoutMS: 30_000,
		},
		Refiner:   RefinerConfig{},
		Recording: RecordingConfig{MinMS: 300},
		Paste:     PasteConfig{Enable: true, Shortcut: "CTRL,V"},
		Indicator: IndicatorConfig{
			Enable:         true,
			Backend:        "hypr",
			DesktopAppName: "quill-indicator",
			SoundEnable:    true,
			Height:         28,
			ErrorTimeoutMS: 1600,
		},
		Clipboard: CommandConfig{Raw: clipboard, Argv: mustParseArgv(clipboard)},
		History:   HistoryConfig{},
		Debug:     DebugConfig{},
	}
}
