package schedule

import "fmt"

// UnknownEnumError reports an enum value that reached the engine without
// passing validation. This is a broken caller contract, not a user-facing
// error: every frequency and payment method is checked at the boundary
// before the engine runs, so the only way to see this is a programming
// mistake upstream. It is raised via panic so the fault aborts loudly
// instead of being silently recovered.
type UnknownEnumError struct {
	Kind  string
	Value string
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}
