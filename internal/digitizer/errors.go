package digitizer

import (
	"errors"
	"fmt"
)

// FailureKind categorizes fatal extraction failures.
type FailureKind string

const (
	// KindColorNotDetected means no palette profile cleared the minimum
	// pixel floor inside the plot bounds.
	KindColorNotDetected FailureKind = "color_not_detected"

	// KindZeroLineNotFound means no row in the search band scored high
	// enough to be the zero reference. The engine never defaults to an
	// arbitrary row.
	KindZeroLineNotFound FailureKind = "zero_line_not_found"

	// KindInsufficientTrace means too few points survived tracing for the
	// series to be meaningful.
	KindInsufficientTrace FailureKind = "insufficient_trace"

	// KindOutOfRangeValue means a mapped value exceeded the declared domain
	// range by more than the tolerance, which indicates miscalibration
	// rather than legitimate data.
	KindOutOfRangeValue FailureKind = "out_of_range_value"
)

// ExtractionError is a tagged fatal failure of a single-image extraction.
type ExtractionError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an ExtractionError of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind == kind
	}
	return false
}

func failf(kind FailureKind, format string, args ...interface{}) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
