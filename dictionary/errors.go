package dictionary

import "fmt"

// LoadError reports malformed dictionary input. When Load returns a
// LoadError nothing from the input has been applied.
type LoadError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("dictionary line %d: %s", e.Line, e.Reason)
	if e.Text != "" {
		msg += fmt.Sprintf(" (%q)", e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LockError is returned by every operation on a dictionary whose state was
// left undefined by a panic during a mutation. Reset clears it.
type LockError struct {
	Cause any
}

func (e *LockError) Error() string {
	return fmt.Sprintf("dictionary lock poisoned: %v", e.Cause)
}
