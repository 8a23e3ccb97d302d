package sim

import "fmt"

// ConfigurationError reports an invalid startup parameter. It is fatal:
// the caller is expected to refuse to start the simulation.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func newConfigError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation reports a broken internal consistency check, such as a
// negative timestep or overlapping vehicles. It indicates a programming
// defect, never a recoverable runtime condition; the loop aborts on it
// rather than continuing with corrupted state.
type InvariantViolation struct {
	Check  string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated: %s: %s", e.Check, e.Detail)
}

func invariantf(check, format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Check: check, Detail: fmt.Sprintf(format, args...)}
}
