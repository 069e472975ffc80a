package domain

import (
	"context"
	"time"
)

// Engine event names. Notify nodes and NotifyOn fields add user-defined names.
const (
	EventPathChanged        = "path_changed"
	EventCommandCompleted   = "command_completed"
	EventNotifyDispatched   = "notify_dispatched"
	EventOptionsDiscarded   = "options_discarded"
	EventActivationRejected = "activation_rejected"
)

// CommandResult is the outcome of an external command. A failed command is
// reported through Err; it is data for subscribers, not an engine error.
type CommandResult struct {
	Command  string        `json:"command"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Err      error         `json:"-"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the command did not succeed.
func (r CommandResult) Failed() bool {
	return r.Err != nil
}

// Event is a named notification published by the engine.
type Event struct {
	Name      string         `json:"name"`
	Args      []any          `json:"args,omitempty"`
	Result    *CommandResult `json:"result,omitempty"`
	Path      Path           `json:"path"`
	Timestamp time.Time      `json:"timestamp"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnPathChanged     func(context.Context, Path)
	OnCommandStart    func(context.Context, string)
	OnCommandComplete func(context.Context, CommandResult)
	OnFault           func(context.Context, error)
}
