package rendering

import "fmt"

// Stage names the step a render failed in.
type Stage string

const (
	StageParse   Stage = "parse"
	StageExecute Stage = "execute"
)

// Error reports a layout whose template could not be parsed or executed.
// Both are programming errors in the embedded templates, not in user input.
type Error struct {
	Stage  Stage
	Layout string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.Layout, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
