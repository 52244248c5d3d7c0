package spectro

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported by the computation engine
type ErrorKind string

const (
	KindInsufficientBaselineData    ErrorKind = "insufficient_baseline_data"
	KindMissingDiagnosticWavelength ErrorKind = "missing_diagnostic_wavelength"
	KindInvalidMeasurement          ErrorKind = "invalid_measurement"
	KindInvalidInput                ErrorKind = "invalid_input"
)

// Sentinels for errors.Is matching against *Error values
var (
	ErrInsufficientBaselineData    = &Error{Kind: KindInsufficientBaselineData}
	ErrMissingDiagnosticWavelength = &Error{Kind: KindMissingDiagnosticWavelength}
	ErrInvalidMeasurement          = &Error{Kind: KindInvalidMeasurement}
	ErrInvalidInput                = &Error{Kind: KindInvalidInput}
)

// Error is the single structured failure returned by the engine
type Error struct {
	Kind       ErrorKind
	Wavelength float64 // offending wavelength, 0 when not applicable
	Window     string  // offending baseline window, empty when not applicable
	Msg        string
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Window != "" {
		msg += fmt.Sprintf(" (window %s)", e.Window)
	}
	if e.Wavelength != 0 {
		msg += fmt.Sprintf(" (wavelength %g nm)", e.Wavelength)
	}
	return msg
}

// Is reports kind equality so callers can match with the package sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of an engine error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func invalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}
