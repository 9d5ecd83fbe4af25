// Package cli parses quill's command line surface.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandToggle  Command = "toggle"
	CommandStop    Command = "stop"
	CommandCancel  Command = "cancel"
	CommandStatus  Command = "status"
	CommandDevices Command = "devices"
	CommandHistory Command = "history"
	CommandJargon  Command = "jargon"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandToggle:  {},
	CommandStop:    {},
	CommandCancel:  {},
	CommandStatus:  {},
	CommandDevices: {},
	CommandHistory: {},
	CommandJargon:  {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	// HistoryClear is set by `history clear`.
	HistoryClear bool

	// JargonTerm/JargonCanonical are set by `jargon add TERM CANONICAL`.
	JargonTerm      string
	JargonCanonical string
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp

			rest := args[i+1:]
			if err := parseCommandArgs(&parsed, cmd, rest); err != nil {
				return Parsed{}, err
			}
			return parsed, nil
		}
	}

	return parsed, nil
}

// parseCommandArgs validates per-command trailing arguments.
func parseCommandArgs(parsed *Parsed, cmd Command, rest []string) error {
	switch cmd {
	case CommandHistory:
		switch {
		case len(rest) == 0:
			return nil
		case len(rest) == 1 && rest[0] == "clear":
			parsed.HistoryClear = true
			return nil
		default:
			return fmt.Errorf("history accepts only the optional subcommand %q", "clear")
		}

	case CommandJargon:
		if len(rest) != 3 || rest[0] != "add" {
			return errors.New("usage: jargon add TERM CANONICAL")
		}
		term := strings.TrimSpace(rest[1])
		canonical := strings.TrimSpace(rest[2])
		if term == "" || canonical == "" {
			return errors.New("jargon add requires non-empty TERM and CANONICAL")
		}
		parsed.JargonTerm = term
		parsed.JargonCanonical = canonical
		return nil

	default:
		if len(rest) > 0 {
			return fmt.Errorf("unexpected arguments after command %q", cmd)
		}
		return nil
	}
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command>

Commands:
  toggle                     Start recording, or stop+commit when already recording
  stop                       Stop active recording and commit refined text
  cancel                     Cancel active recording and discard audio
  status                     Print current state
  devices                    List available input devices
  history                    Print recorded dictation sessions
  history clear              Delete all recorded sessions
  jargon add TERM CANONICAL  Add a jargon casing rule for this run
  doctor                     Run configuration and environment checks
  version                    Print version information
  help                       Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/quill/config.jsonc)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
