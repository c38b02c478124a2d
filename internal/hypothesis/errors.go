package hypothesis

import (
	"errors"
	"fmt"
)

// ErrNoData signals that the request carried neither raw signals nor a
// financial snapshot. Callers surface it as a not-found condition; it is
// never retried internally.
var ErrNoData = errors.New("hypothesis: no signals or financial data to analyze")

// ValidationError reports a violated structural invariant after grouping or
// aggregation. It indicates an internal defect, not a data problem, so the
// whole invocation fails rather than returning an inconsistent structure.
type ValidationError struct {
	Check string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("hypothesis: invariant %s violated: %s", e.Check, e.Msg)
}

func validationErrorf(check, format string, args ...any) error {
	return &ValidationError{Check: check, Msg: fmt.Sprintf(format, args...)}
}

// PartialDataWarning records a non-fatal degradation (an AI batch that fell
// back to heuristics, a failed narrative synthesis). Warnings downgrade the
// result confidence but never block completion.
type PartialDataWarning struct {
	Stage string
	Cause error
}

func (w PartialDataWarning) String() string {
	return fmt.Sprintf("partial data at %s: %v", w.Stage, w.Cause)
}
