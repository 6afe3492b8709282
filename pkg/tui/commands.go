package tui

import (
	"fmt"
	"strings"

	"github.com/entrhq/clues/pkg/game"
)

type commandKind int

const (
	commandMark commandKind = iota
	commandBoard
	commandStop
	commandCopy
	commandHelp
	commandQuit
)

type command struct {
	kind       commandKind
	coordinate string
	status     game.Status
	showBoard  bool
}

const helpText = `Commands:
  innocent <coordinate> [-b]  Mark a suspect as innocent (alias: i)
  criminal <coordinate> [-b]  Mark a suspect as criminal (alias: c)
                              -b shows the full board afterwards
  board                       Show the current board
  copy                        Copy the share grid of a finished game
  stop                        Stop the game server
  help                        Show this help
  quit                        Leave without stopping the server`

// parseCommand reads one line of input. Words are case-insensitive.
func parseCommand(input string) (command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return command{}, fmt.Errorf("type a command, or help")
	}

	switch fields[0] {
	case "innocent", "i":
		return parseMark(game.StatusInnocent, fields[1:])
	case "criminal", "c":
		return parseMark(game.StatusCriminal, fields[1:])
	case "board", "b":
		return command{kind: commandBoard}, nil
	case "copy":
		return command{kind: commandCopy}, nil
	case "stop":
		return command{kind: commandStop}, nil
	case "help", "?":
		return command{kind: commandHelp}, nil
	case "quit", "exit", "q":
		return command{kind: commandQuit}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

func parseMark(status game.Status, args []string) (command, error) {
	cmd := command{kind: commandMark, status: status}
	for _, arg := range args {
		switch {
		case arg == "-b" || arg == "--board":
			cmd.showBoard = true
		case cmd.coordinate == "":
			cmd.coordinate = arg
		default:
			return command{}, fmt.Errorf("unexpected argument %q", arg)
		}
	}
	if cmd.coordinate == "" {
		return command{}, fmt.Errorf("please provide a coordinate (e.g., A1)")
	}
	return cmd, nil
}
