package loot

import (
	"fmt"
	"strings"
)

// SourceUnavailableError reports a text source that could not be opened or read
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("loot source %q unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// MalformedLineError reports a line that does not hold a name and a tries field
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: malformed loot record %q: expected name,tries", e.Line, e.Text)
}

// InvalidTriesError reports a tries value that is not a positive integer.
// Line is 0 when the value did not come from a source line.
type InvalidTriesError struct {
	Line int
	Text string
}

func (e *InvalidTriesError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid tries %q: positive integer expected", e.Text)
	}
	return fmt.Sprintf("line %d: invalid tries %q: positive integer expected", e.Line, e.Text)
}

// InvalidConfidenceError reports a confidence outside the open interval (0, 1)
type InvalidConfidenceError struct {
	Confidence float64
}

func (e *InvalidConfidenceError) Error() string {
	return fmt.Sprintf("invalid confidence %g: must be between 0 and 1 exclusive", e.Confidence)
}

// InvalidChanceError reports a drop chance outside (0, 1]
type InvalidChanceError struct {
	Chance float64
}

func (e *InvalidChanceError) Error() string {
	return fmt.Sprintf("invalid drop chance %g: must be in (0, 1]", e.Chance)
}

// LoadError collects every line error of a load run with the Collect policy
type LoadError struct {
	Errors []error
}

func (e *LoadError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("loot table load failed with %d error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *LoadError) Unwrap() []error {
	return e.Errors
}
