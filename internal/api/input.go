package api

import (
	"fmt"

	"blockfall/internal/session"
	"blockfall/internal/tetromino"
)

// Player command names accepted by POST /api/game/input.
const (
	CmdStart     = "start"
	CmdLeft      = "left"
	CmdRight     = "right"
	CmdRotateCW  = "rotate_cw"
	CmdRotateCCW = "rotate_ccw"
	CmdSoftDrop  = "soft_drop"
	CmdHardDrop  = "hard_drop"
	CmdHold      = "hold"
	CmdPause     = "pause"
)

// ApplyCommand maps a command name onto a host action. Commands that do not
// apply in the current state (moving while paused, holding twice) are
// accepted and absorbed as no-ops by the state machine; only unknown names
// are errors.
func ApplyCommand(host HostInterface, command string) (session.Snapshot, error) {
	switch command {
	case CmdStart:
		return host.StartGame(), nil
	case CmdLeft:
		return host.Move(-1), nil
	case CmdRight:
		return host.Move(1), nil
	case CmdRotateCW:
		return host.Rotate(tetromino.Clockwise), nil
	case CmdRotateCCW:
		return host.Rotate(tetromino.CounterClockwise), nil
	case CmdSoftDrop:
		return host.SoftDrop(), nil
	case CmdHardDrop:
		return host.HardDrop(), nil
	case CmdHold:
		return host.Hold(), nil
	case CmdPause:
		return host.TogglePause(), nil
	default:
		return session.Snapshot{}, fmt.Errorf("unknown command %q", command)
	}
}
