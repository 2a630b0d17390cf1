package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	applog "penside/internal/log"
	"penside/models"
)

// Gorm is the GORM-backed Repository used against both postgres and the
// sqlite mock store.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps a GORM handle in the repository boundary.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

var _ Repository = (*Gorm)(nil)

func (r *Gorm) GetAnimal(ctx context.Context, id uint) (*models.Animal, error) {
	var animal models.Animal
	err := r.db.WithContext(ctx).Preload("Pen").First(&animal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "get animal", Err: err}
	}
	if err := validateAnimal(ctx, &animal); err != nil {
		return nil, err
	}
	return &animal, nil
}

func (r *Gorm) SearchAnimalsByEID(ctx context.Context, fragment string) ([]models.Animal, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return []models.Animal{}, nil
	}

	var animals []models.Animal
	pattern := "%" + strings.ToLower(fragment) + "%"
	err := r.db.WithContext(ctx).
		Preload("Pen").
		Where("animal_eid IS NOT NULL AND animal_eid != '' AND lower(animal_eid) LIKE ?", pattern).
		Order("animal_eid asc, id asc").
		Find(&animals).Error
	if err != nil {
		return nil, &Error{Op: "search animals by eid", Err: err}
	}
	return r.validateAnimals(ctx, animals)
}

func (r *Gorm) ListAnimalsByLot(ctx context.Context, lotID uint) ([]models.Animal, error) {
	var animals []models.Animal
	err := r.db.WithContext(ctx).
		Preload("Pen").
		Joins("JOIN pens ON pens.id = animals.pen_id").
		Where("pens.lot_id = ?", lotID).
		Order("animals.visual_tag asc, animals.id asc").
		Find(&animals).Error
	if err != nil {
		return nil, &Error{Op: "list animals by lot", Err: err}
	}
	return r.validateAnimals(ctx, animals)
}

func (r *Gorm) ListAnimalsByPen(ctx context.Context, penID uint) ([]models.Animal, error) {
	var animals []models.Animal
	err := r.db.WithContext(ctx).
		Preload("Pen").
		Where("pen_id = ?", penID).
		Order("visual_tag asc, id asc").
		Find(&animals).Error
	if err != nil {
		return nil, &Error{Op: "list animals by pen", Err: err}
	}
	return r.validateAnimals(ctx, animals)
}

func (r *Gorm) UpdateAnimal(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Animal{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return &Error{Op: "update animal", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Gorm) GetPen(ctx context.Context, id uint) (*models.Pen, error) {
	var pen models.Pen
	err := r.db.WithContext(ctx).Preload("Lot").First(&pen, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "get pen", Err: err}
	}
	return &pen, nil
}

func (r *Gorm) ListLots(ctx context.Context) ([]models.Lot, error) {
	var lots []models.Lot
	if err := r.db.WithContext(ctx).Order("lot_number asc").Find(&lots).Error; err != nil {
		return nil, &Error{Op: "list lots", Err: err}
	}
	return lots, nil
}

func (r *Gorm) ListPensByLot(ctx context.Context, lotID uint) ([]models.Pen, error) {
	if lotID == 0 {
		return []models.Pen{}, nil
	}
	var pens []models.Pen
	err := r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("pen_number asc").
		Find(&pens).Error
	if err != nil {
		return nil, &Error{Op: "list pens by lot", Err: err}
	}
	return pens, nil
}

func (r *Gorm) ListDiagnoses(ctx context.Context) ([]models.Diagnosis, error) {
	var diagnoses []models.Diagnosis
	if err := r.db.WithContext(ctx).Order("name asc").Find(&diagnoses).Error; err != nil {
		return nil, &Error{Op: "list diagnoses", Err: err}
	}
	return diagnoses, nil
}

func (r *Gorm) GetDiagnosis(ctx context.Context, id uint) (*models.Diagnosis, error) {
	var diagnosis models.Diagnosis
	err := r.db.WithContext(ctx).First(&diagnosis, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "get diagnosis", Err: err}
	}
	return &diagnosis, nil
}

func (r *Gorm) ListTreatmentsForDiagnosis(ctx context.Context, diagnosisID uint) ([]models.Treatment, error) {
	var treatments []models.Treatment
	err := r.db.WithContext(ctx).
		Joins("JOIN treatment_diagnoses ON treatment_diagnoses.treatment_id = treatments.id").
		Where("treatment_diagnoses.diagnosis_id = ?", diagnosisID).
		Order("treatments.name asc").
		Find(&treatments).Error
	if err != nil {
		return nil, &Error{Op: "list treatments for diagnosis", Err: err}
	}
	return treatments, nil
}

func (r *Gorm) GetTreatment(ctx context.Context, id uint) (*models.Treatment, error) {
	var treatment models.Treatment
	err := r.db.WithContext(ctx).First(&treatment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "get treatment", Err: err}
	}
	return &treatment, nil
}

func (r *Gorm) InsertTreatmentRecord(ctx context.Context, record *models.TreatmentRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return &Error{Op: "insert treatment record", Err: err}
	}
	return nil
}

func (r *Gorm) GetDeathRecord(ctx context.Context, animalID uint) (*models.DeathRecord, error) {
	var record models.DeathRecord
	err := r.db.WithContext(ctx).
		Where("animal_id = ?", animalID).
		Order("created_at desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "get death record", Err: err}
	}
	return &record, nil
}

func (r *Gorm) UpsertDeathRecord(ctx context.Context, animalID uint, record *models.DeathRecord) error {
	record.AnimalID = animalID

	var existing models.DeathRecord
	err := r.db.WithContext(ctx).Where("animal_id = ?", animalID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
			return &Error{Op: "insert death record", Err: err}
		}
		return nil
	case err != nil:
		return &Error{Op: "find death record", Err: err}
	}

	updates := map[string]any{
		"reason":     record.Reason,
		"necropsy":   record.Necropsy,
		"death_date": record.DeathDate,
	}
	if record.PhotoURL != "" {
		updates["photo_url"] = record.PhotoURL
	}
	if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return &Error{Op: "update death record", Err: err}
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return nil
}

func (r *Gorm) InsertRealizationRecord(ctx context.Context, record *models.RealizationRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return &Error{Op: "insert realization record", Err: err}
	}
	return nil
}

func (r *Gorm) GetRealizationRecord(ctx context.Context, animalID uint) (*models.RealizationRecord, error) {
	var record models.RealizationRecord
	err := r.db.WithContext(ctx).
		Where("animal_id = ?", animalID).
		Order("created_at desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "get realization record", Err: err}
	}
	return &record, nil
}

func (r *Gorm) validateAnimals(ctx context.Context, animals []models.Animal) ([]models.Animal, error) {
	for i := range animals {
		if err := validateAnimal(ctx, &animals[i]); err != nil {
			return nil, err
		}
	}
	if animals == nil {
		animals = []models.Animal{}
	}
	return animals, nil
}

// validateAnimal is the boundary check for rows coming out of the store.
// Unknown enum values are surfaced as integrity errors instead of being
// coerced, so corrupted rows cannot masquerade as active animals.
func validateAnimal(ctx context.Context, animal *models.Animal) error {
	if _, err := models.ParseAnimalStatus(string(animal.Status)); err != nil {
		applog.Warn(ctx, "animal row failed status integrity check",
			"animalID", animal.ID,
			"status", string(animal.Status),
		)
		return &IntegrityError{Table: "animals", ID: animal.ID, Err: err}
	}
	if _, err := models.ParseGender(string(animal.Gender)); err != nil {
		applog.Warn(ctx, "animal row failed gender integrity check",
			"animalID", animal.ID,
			"gender", string(animal.Gender),
		)
		return &IntegrityError{Table: "animals", ID: animal.ID, Err: err}
	}
	return nil
}
