package ical

import (
	"fmt"
	"sort"
	"strings"
)

type CustomError struct {
	msg  string
	args map[string]any
}

// Create a new custom error
func NewCustomError(msg string, args map[string]any) *CustomError {
	if args == nil {
		args = make(map[string]any)
	}
	return &CustomError{
		msg:  msg,
		args: args,
	}
}

// Get the error message
func (e *CustomError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	if len(e.args) == 0 {
		return sb.String()
	}
	sb.WriteString(" |")
	keys := make([]string, 0, len(e.args))
	for key := range e.args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf(" %s: %v", key, e.args[key]))
	}
	return sb.String()
}

// Unwrap exposes the "err" argument, if any
func (e *CustomError) Unwrap() error {
	if err, ok := e.args["err"].(error); ok {
		return err
	}
	return nil
}

// Args returns the context attached to the error as slog key/value pairs.
func (e *CustomError) Args() []any {
	out := make([]any, 0, len(e.args)*2)
	for k, v := range e.args {
		out = append(out, k, v)
	}
	return out
}
