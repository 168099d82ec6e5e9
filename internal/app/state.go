package app

import "fmt"

// State is a lifecycle stage of the server process.
type State int32

const (
	StateCreated State = iota
	StateConfigValidated
	StateToolsRegistered
	StateServing
	StateShuttingDown
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateConfigValidated:
		return "ConfigValidated"
	case StateToolsRegistered:
		return "ToolsRegistered"
	case StateServing:
		return "Serving"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// StateError reports an operation attempted in the wrong lifecycle state.
type StateError struct {
	Op       string
	Current  State
	Expected State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: server is %s, expected %s", e.Op, e.Current, e.Expected)
}

// transition moves from -> to atomically or returns a *StateError.
func (a *App) transition(op string, from, to State) error {
	if !a.state.CompareAndSwap(int32(from), int32(to)) {
		return &StateError{Op: op, Current: a.State(), Expected: from}
	}
	a.Logger.Debug().Str("from", from.String()).Str("to", to.String()).Msg("lifecycle transition")
	return nil
}

// State returns the current lifecycle state.
func (a *App) State() State {
	return State(a.state.Load())
}
