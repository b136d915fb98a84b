package records

import "fmt"

// StoreWriteError is returned when a create, delete or upsert fails.
type StoreWriteError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// StoreReadError is returned when a query or lookup fails. An empty
// collection is not a read error.
type StoreReadError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }
