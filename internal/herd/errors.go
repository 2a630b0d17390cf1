package herd

import (
	"fmt"
	"strings"

	"penside/models"
)

// ValidationError reports the required fields missing or malformed on an
// event submission. Nothing is written when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidTransitionError rejects an action not permitted in the animal's
// current status. The current status travels with the error so callers can
// explain the rejection.
type InvalidTransitionError struct {
	Current models.AnimalStatus
	Action  Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %s not permitted: animal is %s", e.Action, e.Current)
}

// PartialWriteError means the event record was persisted but the follow-up
// animal update failed. The record exists; the animal's derived status or
// counters may be stale. Distinct from total failure on purpose.
type PartialWriteError struct {
	Op  string
	Err error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: event record saved but animal update failed: %v", e.Op, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
