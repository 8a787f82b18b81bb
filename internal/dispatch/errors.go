package dispatch

import (
	"encoding/json"
	"fmt"
)

// HandlerError wraps the error of a command that failed. It is what the
// dispatcher hands back to the event bus once the invoker has been answered.
type HandlerError struct {
	Command string
	GuildID string
	Options map[string]any
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("command /%s failed: %v", e.Command, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// CommandName and Guild let the error boundary attribute the failure without
// importing this package.
func (e *HandlerError) CommandName() string { return e.Command }
func (e *HandlerError) Guild() string       { return e.GuildID }

// ErrorReport is the diagnostic message sent for a failed command.
type ErrorReport struct {
	Command string
	Options string
	Err     error
}

func newErrorReport(e *HandlerError) ErrorReport {
	opts := "{}"
	if len(e.Options) > 0 {
		if raw, err := json.Marshal(e.Options); err == nil {
			opts = string(raw)
		} else {
			opts = fmt.Sprintf("%v", e.Options)
		}
	}
	return ErrorReport{Command: e.Command, Options: opts, Err: e.Err}
}

func (r ErrorReport) String() string {
	return fmt.Sprintf("Error while handling command `%s`.\nOptions:\n```json\n%s\n```\nError:\n```\n%v\n```",
		r.Command, r.Options, r.Err)
}
