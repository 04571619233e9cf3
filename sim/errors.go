package sim

import "fmt"

// InvariantViolation marks an internal consistency breach detected during
// a run (cache over capacity, checked after every access) or at its end
// (counters that don't reconcile). This
// is a programmer error, not a caller-facing condition, so the driver
// panics with one rather than returning it.
type InvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("sim: invariant %s violated: %s", e.Invariant, e.Detail)
}

func panicInvariant(invariant, format string, args ...any) {
	panic(&InvariantViolation{Invariant: invariant, Detail: fmt.Sprintf(format, args...)})
}
