package mqtt

import (
	"errors"
	"fmt"
	"strings"
)

// Command is a remote control verb received on the command topic.
type Command string

const (
	CmdToggle Command = "toggle" // toggle run state, same as the start-stop button
	CmdStart  Command = "start"  // run only (no-op if already running)
	CmdStop   Command = "stop"   // pause only (no-op if already paused)
	CmdSwap   Command = "swap"   // swap counting direction
	CmdReset  Command = "reset"  // reset counter to zero
)

// ErrUnknownCommand is returned by ParseCommand for unrecognized payloads.
var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand interprets a raw command payload. Matching is
// case-insensitive and surrounding whitespace is ignored.
func ParseCommand(raw []byte) (Command, error) {
	s := strings.ToLower(strings.TrimSpace(string(raw)))
	switch Command(s) {
	case CmdToggle, CmdStart, CmdStop, CmdSwap, CmdReset:
		return Command(s), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCommand, s)
}
