package session

import "errors"

// State is the lifecycle phase of a Session.
type State int

const (
	Idle State = iota
	Editing
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	ErrRuleInvalid    = errors.New("rule invalid")
	ErrEditing        = errors.New("session is in editing mode")
	ErrNotEditing     = errors.New("seed edits require editing mode")
	ErrRunning        = errors.New("session is running")
	ErrSeedOutOfRange = errors.New("seed outside grid")
	ErrGridSize       = errors.New("grid size must be positive")
)
