package repository

import (
	"context"
	"errors"
	"fmt"

	"penside/models"
)

// ErrNotFound is returned when a referenced animal or record is absent.
var ErrNotFound = errors.New("record not found")

// Error wraps an underlying store failure. Callers may retry the whole
// operation; this layer never retries on its own.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IntegrityError marks a row that came back from the store with a value the
// schema does not permit, such as an unrecognised status string. It is
// deliberately loud: the legacy client silently coerced these to "active".
type IntegrityError struct {
	Table string
	ID    uint
	Err   error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("repository: %s row %d failed integrity check: %v", e.Table, e.ID, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// Repository is the thin persistence boundary consumed by the lifecycle core.
// Implementations validate enum fields on read and wrap store failures in
// *Error; absence is always ErrNotFound, never a nil-nil pair.
type Repository interface {
	GetAnimal(ctx context.Context, id uint) (*models.Animal, error)

	// SearchAnimalsByEID matches the fragment case-insensitively as a
	// substring of the EID and returns all candidates in deterministic
	// order (EID, then id). An empty result is not an error.
	SearchAnimalsByEID(ctx context.Context, fragment string) ([]models.Animal, error)

	ListAnimalsByLot(ctx context.Context, lotID uint) ([]models.Animal, error)
	ListAnimalsByPen(ctx context.Context, penID uint) ([]models.Animal, error)

	// UpdateAnimal applies a partial column update to one animal.
	UpdateAnimal(ctx context.Context, id uint, fields map[string]any) error

	GetPen(ctx context.Context, id uint) (*models.Pen, error)
	ListLots(ctx context.Context) ([]models.Lot, error)
	ListPensByLot(ctx context.Context, lotID uint) ([]models.Pen, error)

	ListDiagnoses(ctx context.Context) ([]models.Diagnosis, error)
	GetDiagnosis(ctx context.Context, id uint) (*models.Diagnosis, error)
	ListTreatmentsForDiagnosis(ctx context.Context, diagnosisID uint) ([]models.Treatment, error)
	GetTreatment(ctx context.Context, id uint) (*models.Treatment, error)

	InsertTreatmentRecord(ctx context.Context, record *models.TreatmentRecord) error

	GetDeathRecord(ctx context.Context, animalID uint) (*models.DeathRecord, error)
	// UpsertDeathRecord updates the existing death record for the animal in
	// place when one exists, otherwise inserts a new row. At most one death
	// record ever exists per animal.
	UpsertDeathRecord(ctx context.Context, animalID uint, record *models.DeathRecord) error

	InsertRealizationRecord(ctx context.Context, record *models.RealizationRecord) error
	GetRealizationRecord(ctx context.Context, animalID uint) (*models.RealizationRecord, error)
}
