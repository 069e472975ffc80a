package domain

import "time"

// WireEvent is the JSON form of an Event for remote subscribers.
// Errors are flattened to strings.
type WireEvent struct {
	Name      string      `json:"name"`
	Args      []any       `json:"args,omitempty"`
	Result    *WireResult `json:"result,omitempty"`
	Path      []int       `json:"path"`
	Timestamp time.Time   `json:"timestamp"`
}

// WireResult is the JSON form of a CommandResult.
type WireResult struct {
	Command    string `json:"command"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	Error      string `json:"error,omitempty"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
}

// ToWire converts an event to its wire form.
func ToWire(ev Event) WireEvent {
	w := WireEvent{
		Name:      ev.Name,
		Path:      []int(ev.Path),
		Timestamp: ev.Timestamp,
	}
	for _, a := range ev.Args {
		if err, ok := a.(error); ok {
			a = err.Error()
		}
		w.Args = append(w.Args, a)
	}
	if r := ev.Result; r != nil {
		w.Result = &WireResult{
			Command:    r.Command,
			Stdout:     r.Stdout,
			Stderr:     r.Stderr,
			ExitCode:   r.ExitCode,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			w.Result.Error = r.Err.Error()
		}
	}
	return w
}
