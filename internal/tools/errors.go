package tools

import (
	"errors"
	"fmt"
)

// ErrGenerationFailed wraps every failure of the model call behind a tool.
var ErrGenerationFailed = errors.New("generation failed")

// ValidationError reports input rejected before the model is called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
