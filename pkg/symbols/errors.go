package symbols

import "fmt"

// TypeLockedError reports a mutation of a type after Lock.
type TypeLockedError struct {
	Type   string
	Member string
}

func (e *TypeLockedError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("symbols: type '%s' is locked", e.Type)
	}
	return fmt.Sprintf("symbols: type '%s' is locked; cannot add '%s'", e.Type, e.Member)
}
