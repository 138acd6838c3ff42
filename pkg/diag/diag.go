// Package diag defines the diagnostic model shared by every pipeline stage.
package diag

import "fmt"

// Stage identifies the pipeline stage that produced a diagnostic.
type Stage uint8

const (
	StageLex Stage = iota
	StageParse
	StageSemantic
	StageRuntime
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "LEX"
	case StageParse:
		return "PARSE"
	case StageSemantic:
		return "SEMANTIC"
	case StageRuntime:
		return "RUNTIME"
	default:
		return "UNKNOWN"
	}
}

// Severity indicates whether a diagnostic is an error or a warning.
type Severity uint8

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single structured problem report. Every diagnostic
// carries the source position it refers to.
type Diagnostic struct {
	Stage    Stage    `json:"stage"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
}

// Error makes a Diagnostic usable as a Go error value.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s at line %d, col %d: %s", d.Stage, d.Severity, d.Line, d.Column, d.Message)
}

// Errorf builds an ERROR-severity diagnostic for the given stage.
func Errorf(stage Stage, line, column int, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Stage:    stage,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   column,
	}
}

// Warnf builds a WARNING-severity diagnostic for the given stage.
func Warnf(stage Stage, line, column int, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Stage:    stage,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   column,
	}
}

// HasErrors reports whether any diagnostic in the slice is an error.
// Interpretation is refused while this holds.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// MarshalText renders the stage name into JSON artifacts.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText restores a stage from its artifact name.
func (s *Stage) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LEX":
		*s = StageLex
	case "PARSE":
		*s = StageParse
	case "SEMANTIC":
		*s = StageSemantic
	case "RUNTIME":
		*s = StageRuntime
	default:
		return fmt.Errorf("diag: unknown stage %q", text)
	}
	return nil
}

// MarshalText renders the severity name into JSON artifacts.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText restores a severity from its artifact name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = Error
	case "warning":
		*s = Warning
	default:
		return fmt.Errorf("diag: unknown severity %q", text)
	}
	return nil
}
