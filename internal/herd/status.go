package herd

import "penside/models"

// Action is a lifecycle event requested against an animal.
type Action string

const (
	ActionTreat       Action = "treat"
	ActionRecordDeath Action = "record_death"
	ActionRealize     Action = "realize"
)

// Outcome describes what a permitted action does to the animal row and its
// event record.
type Outcome struct {
	// Status the animal holds after the action.
	Status models.AnimalStatus
	// ReTreatDelta is added to the re_treat counter. Only Treat moves it.
	ReTreatDelta int
	// WriteAnimal is false when the action touches only the event record
	// (amending a death) or nothing at all (replaying a realization).
	WriteAnimal bool
	// AmendRecord means the existing event record is updated in place.
	AmendRecord bool
	// ReplayRecord means the existing event record is returned untouched.
	ReplayRecord bool
}

// Transition is the status rule table. Given the animal's current status and
// the requested action it either describes the permitted outcome or rejects
// with *InvalidTransitionError.
//
//	            Treat                RecordDeath          Realize
//	active      ok, re_treat+1       ok -> dead           ok -> realized
//	dead        rejected             ok, amend record     rejected
//	realized    rejected             rejected             ok, replay record
func Transition(current models.AnimalStatus, action Action) (Outcome, error) {
	switch current {
	case models.StatusActive:
		switch action {
		case ActionTreat:
			return Outcome{Status: models.StatusActive, ReTreatDelta: 1, WriteAnimal: true}, nil
		case ActionRecordDeath:
			return Outcome{Status: models.StatusDead, WriteAnimal: true}, nil
		case ActionRealize:
			return Outcome{Status: models.StatusRealized, WriteAnimal: true}, nil
		}
	case models.StatusDead:
		// The one amendment path: re-running the death form corrects the
		// previously entered reason or necropsy flag.
		if action == ActionRecordDeath {
			return Outcome{Status: models.StatusDead, AmendRecord: true}, nil
		}
		return Outcome{}, &InvalidTransitionError{Current: current, Action: action}
	case models.StatusRealized:
		if action == ActionRealize {
			return Outcome{Status: models.StatusRealized, ReplayRecord: true}, nil
		}
		return Outcome{}, &InvalidTransitionError{Current: current, Action: action}
	}
	return Outcome{}, &InvalidTransitionError{Current: current, Action: action}
}
