package herd

import (
	"context"
	"time"

	applog "penside/internal/log"
	"penside/internal/repository"
	"penside/models"
)

// Manager runs the three event workflows against one animal at a time:
// validate, resolve the animal, consult the transition table, write the event
// record, then apply the status/counter update. The event write always comes
// first; a failed animal write afterwards surfaces as *PartialWriteError.
type Manager struct {
	repo repository.Repository
	now  func() time.Time
}

// NewManager builds a Manager on top of the record repository.
func NewManager(repo repository.Repository) *Manager {
	return &Manager{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// TreatmentForm is a treatment submission. Diagnosis, treatment and the
// destination pen are required; the rest is optional.
type TreatmentForm struct {
	DiagnosisID     uint
	TreatmentID     uint
	TreatmentPerson string
	CurrentWeight   *float64
	Severity        models.Severity
	Date            time.Time
	MoveToPenID     uint
}

// TreatResult is the outcome of a successful treatment submission.
type TreatResult struct {
	Animal *models.Animal
	Record *models.TreatmentRecord
}

// Treat records a treatment against an active animal, bumps re_treat by one
// and moves the animal to the destination pen.
func (m *Manager) Treat(ctx context.Context, animalID uint, form TreatmentForm) (*TreatResult, error) {
	var missing []string
	if form.DiagnosisID == 0 {
		missing = append(missing, "diagnosis_id")
	}
	if form.TreatmentID == 0 {
		missing = append(missing, "treatment_id")
	}
	if form.MoveToPenID == 0 {
		missing = append(missing, "move_to_pen_id")
	}
	if form.Severity != "" {
		if _, err := models.ParseSeverity(string(form.Severity)); err != nil {
			missing = append(missing, "severity")
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	animal, err := m.repo.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, err
	}

	outcome, err := Transition(animal.Status, ActionTreat)
	if err != nil {
		return nil, err
	}

	severity := form.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	person := form.TreatmentPerson
	if person == "" {
		person = "system"
	}
	date := form.Date
	if date.IsZero() {
		date = m.now()
	}

	moveTo := form.MoveToPenID
	record := &models.TreatmentRecord{
		AnimalID:        animal.ID,
		DiagnosisID:     form.DiagnosisID,
		TreatmentID:     form.TreatmentID,
		TreatmentPerson: person,
		CurrentWeight:   form.CurrentWeight,
		Severity:        severity,
		TreatmentDate:   date,
		MovedToPenID:    &moveTo,
	}
	if err := m.repo.InsertTreatmentRecord(ctx, record); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"re_treat": animal.ReTreat + outcome.ReTreatDelta,
		"pen_id":   form.MoveToPenID,
	}
	if err := m.repo.UpdateAnimal(ctx, animal.ID, fields); err != nil {
		applog.Error(ctx, "treatment saved but animal update failed",
			"animalID", animal.ID,
			"recordID", record.ID,
			"error", err,
		)
		return nil, &PartialWriteError{Op: "treat", Err: err}
	}

	animal, err = m.repo.GetAnimal(ctx, animal.ID)
	if err != nil {
		return nil, err
	}

	applog.Info(ctx, "treatment recorded",
		"animalID", animal.ID,
		"diagnosisID", form.DiagnosisID,
		"treatmentID", form.TreatmentID,
		"penID", form.MoveToPenID,
	)
	return &TreatResult{Animal: animal, Record: record}, nil
}

// DeathForm is a death-record submission. Reason is required and must be one
// of the fixed causes.
type DeathForm struct {
	Reason   models.DeathReason
	Necropsy bool
	Date     time.Time
	PhotoURL string
}

// DeathResult is the outcome of a successful death submission. Amended is
// true when an existing record was corrected rather than created.
type DeathResult struct {
	Animal  *models.Animal
	Record  *models.DeathRecord
	Amended bool
}

// RecordDeath marks an active animal dead, or amends the existing death
// record of an already-dead animal. At most one record per animal survives.
func (m *Manager) RecordDeath(ctx context.Context, animalID uint, form DeathForm) (*DeathResult, error) {
	var missing []string
	if form.Reason == "" {
		missing = append(missing, "reason")
	} else if _, err := models.ParseDeathReason(string(form.Reason)); err != nil {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	animal, err := m.repo.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, err
	}

	outcome, err := Transition(animal.Status, ActionRecordDeath)
	if err != nil {
		return nil, err
	}

	date := form.Date
	if date.IsZero() {
		date = m.now()
	}

	record := &models.DeathRecord{
		AnimalID:  animal.ID,
		Reason:    form.Reason,
		Necropsy:  form.Necropsy,
		DeathDate: date,
		PhotoURL:  form.PhotoURL,
	}
	if err := m.repo.UpsertDeathRecord(ctx, animal.ID, record); err != nil {
		return nil, err
	}

	if outcome.WriteAnimal {
		if err := m.repo.UpdateAnimal(ctx, animal.ID, map[string]any{"status": string(outcome.Status)}); err != nil {
			applog.Error(ctx, "death record saved but status update failed",
				"animalID", animal.ID,
				"error", err,
			)
			return nil, &PartialWriteError{Op: "record death", Err: err}
		}
		animal.Status = outcome.Status
	}

	applog.Info(ctx, "death recorded",
		"animalID", animal.ID,
		"reason", string(form.Reason),
		"amended", outcome.AmendRecord,
	)
	return &DeathResult{Animal: animal, Record: record, Amended: outcome.AmendRecord}, nil
}

// RealizeForm is a realization submission. The reason reuses the diagnosis
// reference data and is required.
type RealizeForm struct {
	ReasonID uint
	Weight   *float64
	Price    *float64
	Date     time.Time
}

// RealizeResult is the outcome of a realization. Replayed is true when the
// animal was already realized and the stored record was returned untouched.
type RealizeResult struct {
	Animal   *models.Animal
	Record   *models.RealizationRecord
	Replayed bool
}

// Realize culls an active animal. Realization is terminal: a dead animal is
// rejected, and re-realizing a realized animal replays the stored record
// without writing anything.
func (m *Manager) Realize(ctx context.Context, animalID uint, form RealizeForm) (*RealizeResult, error) {
	if form.ReasonID == 0 {
		return nil, &ValidationError{Fields: []string{"reason_id"}}
	}

	animal, err := m.repo.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, err
	}

	outcome, err := Transition(animal.Status, ActionRealize)
	if err != nil {
		return nil, err
	}

	if outcome.ReplayRecord {
		record, err := m.repo.GetRealizationRecord(ctx, animal.ID)
		if err != nil {
			return nil, err
		}
		applog.Info(ctx, "realization replayed", "animalID", animal.ID)
		return &RealizeResult{Animal: animal, Record: record, Replayed: true}, nil
	}

	date := form.Date
	if date.IsZero() {
		date = m.now()
	}

	record := &models.RealizationRecord{
		AnimalID:        animal.ID,
		ReasonID:        form.ReasonID,
		Weight:          form.Weight,
		Price:           form.Price,
		RealizationDate: date,
	}
	if err := m.repo.InsertRealizationRecord(ctx, record); err != nil {
		return nil, err
	}

	if err := m.repo.UpdateAnimal(ctx, animal.ID, map[string]any{"status": string(outcome.Status)}); err != nil {
		applog.Error(ctx, "realization saved but status update failed",
			"animalID", animal.ID,
			"error", err,
		)
		return nil, &PartialWriteError{Op: "realize", Err: err}
	}
	animal.Status = outcome.Status

	applog.Info(ctx, "realization recorded",
		"animalID", animal.ID,
		"reasonID", form.ReasonID,
	)
	return &RealizeResult{Animal: animal, Record: record}, nil
}
