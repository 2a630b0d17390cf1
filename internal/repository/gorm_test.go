package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"penside/internal/db"
	"penside/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return database
}

func seedLocation(t *testing.T, database *gorm.DB) (models.Lot, models.Pen, models.Pen) {
	t.Helper()
	lot := models.Lot{LotNumber: "L001"}
	if err := database.Create(&lot).Error; err != nil {
		t.Fatalf("create lot: %v", err)
	}
	penA := models.Pen{PenNumber: "P001", LotID: &lot.ID}
	penB := models.Pen{PenNumber: "P002", LotID: &lot.ID}
	for _, pen := range []*models.Pen{&penA, &penB} {
		if err := database.Create(pen).Error; err != nil {
			t.Fatalf("create pen: %v", err)
		}
	}
	return lot, penA, penB
}

func createAnimal(t *testing.T, database *gorm.DB, tag string, penID *uint, eid string) models.Animal {
	t.Helper()
	animal := models.Animal{
		VisualTag: tag,
		Gender:    models.GenderSteer,
		Status:    models.StatusActive,
		PenID:     penID,
		EID:       eid,
	}
	if err := database.Create(&animal).Error; err != nil {
		t.Fatalf("create animal %s: %v", tag, err)
	}
	return animal
}

func TestGetAnimalPreloadsPenForLotDerivation(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	lot, penA, _ := seedLocation(t, database)
	created := createAnimal(t, database, "A1001", &penA.ID, "EID-ABC9823")

	animal, err := repo.GetAnimal(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get animal: %v", err)
	}
	if animal.Pen == nil {
		t.Fatal("expected preloaded pen")
	}
	if got := animal.LotID(); got == nil || *got != lot.ID {
		t.Fatalf("expected derived lot %d, got %v", lot.ID, got)
	}
}

func TestGetAnimalNotFound(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)

	if _, err := repo.GetAnimal(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAnimalRejectsMalformedStatus(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	_, penA, _ := seedLocation(t, database)
	created := createAnimal(t, database, "A1001", &penA.ID, "")

	if err := database.Model(&models.Animal{}).Where("id = ?", created.ID).Update("status", "culled").Error; err != nil {
		t.Fatalf("corrupt status: %v", err)
	}

	_, err := repo.GetAnimal(context.Background(), created.ID)
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError for malformed status, got %v", err)
	}
	if integrity.ID != created.ID {
		t.Fatalf("expected integrity error for row %d, got %d", created.ID, integrity.ID)
	}
}

func TestSearchAnimalsByEIDIsCaseInsensitiveAndOrdered(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	_, penA, _ := seedLocation(t, database)
	createAnimal(t, database, "A1003", &penA.ID, "EID-ZZ100")
	createAnimal(t, database, "A1001", &penA.ID, "EID-AA100")
	createAnimal(t, database, "A1002", &penA.ID, "OTHER-TAG")

	matches, err := repo.SearchAnimalsByEID(context.Background(), "eid-")
	if err != nil {
		t.Fatalf("search by eid: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].EID != "EID-AA100" || matches[1].EID != "EID-ZZ100" {
		t.Fatalf("expected deterministic EID ordering, got %s then %s", matches[0].EID, matches[1].EID)
	}

	none, err := repo.SearchAnimalsByEID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("search with no matches: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %d", len(none))
	}

	blank, err := repo.SearchAnimalsByEID(context.Background(), "   ")
	if err != nil || len(blank) != 0 {
		t.Fatalf("blank fragment must yield empty result, got %d (%v)", len(blank), err)
	}
}

func TestListAnimalsByLotJoinsThroughPens(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	lot, penA, penB := seedLocation(t, database)

	otherLot := models.Lot{LotNumber: "L002"}
	if err := database.Create(&otherLot).Error; err != nil {
		t.Fatalf("create other lot: %v", err)
	}
	otherPen := models.Pen{PenNumber: "P009", LotID: &otherLot.ID}
	if err := database.Create(&otherPen).Error; err != nil {
		t.Fatalf("create other pen: %v", err)
	}

	createAnimal(t, database, "A1001", &penA.ID, "")
	createAnimal(t, database, "A1002", &penB.ID, "")
	createAnimal(t, database, "B2001", &otherPen.ID, "")
	createAnimal(t, database, "C3001", nil, "")

	animals, err := repo.ListAnimalsByLot(context.Background(), lot.ID)
	if err != nil {
		t.Fatalf("list by lot: %v", err)
	}
	if len(animals) != 2 {
		t.Fatalf("expected 2 animals in lot, got %d", len(animals))
	}
	for _, animal := range animals {
		if got := animal.LotID(); got == nil || *got != lot.ID {
			t.Fatalf("animal %s not derived into lot %d", animal.VisualTag, lot.ID)
		}
	}
}

func TestListAnimalsByPen(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	_, penA, penB := seedLocation(t, database)
	createAnimal(t, database, "A1001", &penA.ID, "")
	createAnimal(t, database, "A1002", &penA.ID, "")
	createAnimal(t, database, "A1003", &penB.ID, "")

	animals, err := repo.ListAnimalsByPen(context.Background(), penA.ID)
	if err != nil {
		t.Fatalf("list by pen: %v", err)
	}
	if len(animals) != 2 {
		t.Fatalf("expected 2 animals in pen, got %d", len(animals))
	}
}

func TestUpdateAnimalPartialFields(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	_, penA, penB := seedLocation(t, database)
	created := createAnimal(t, database, "A1001", &penA.ID, "")

	err := repo.UpdateAnimal(context.Background(), created.ID, map[string]any{
		"re_treat": 1,
		"pen_id":   penB.ID,
	})
	if err != nil {
		t.Fatalf("update animal: %v", err)
	}

	var reloaded models.Animal
	if err := database.First(&reloaded, created.ID).Error; err != nil {
		t.Fatalf("reload animal: %v", err)
	}
	if reloaded.ReTreat != 1 {
		t.Fatalf("expected re_treat 1, got %d", reloaded.ReTreat)
	}
	if reloaded.PenID == nil || *reloaded.PenID != penB.ID {
		t.Fatalf("expected pen %d, got %v", penB.ID, reloaded.PenID)
	}
	if reloaded.Status != models.StatusActive {
		t.Fatalf("status must be untouched, got %s", reloaded.Status)
	}

	if err := repo.UpdateAnimal(context.Background(), 9999, map[string]any{"re_treat": 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing animal, got %v", err)
	}
}

func TestListPensByLot(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	lot, _, _ := seedLocation(t, database)
	hospital := models.Pen{PenNumber: "Hospital"}
	if err := database.Create(&hospital).Error; err != nil {
		t.Fatalf("create hospital pen: %v", err)
	}

	pens, err := repo.ListPensByLot(context.Background(), lot.ID)
	if err != nil {
		t.Fatalf("list pens: %v", err)
	}
	if len(pens) != 2 {
		t.Fatalf("expected 2 pens for lot, got %d", len(pens))
	}

	empty, err := repo.ListPensByLot(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pens with zero lot: %v", err)
	}
	if len(empty) != 0 {
		t.Fatal("zero lot id must yield empty result, not all pens")
	}
}

func TestListTreatmentsForDiagnosis(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)

	fever := models.Diagnosis{Name: "Fever"}
	lameness := models.Diagnosis{Name: "Lameness"}
	for _, diagnosis := range []*models.Diagnosis{&fever, &lameness} {
		if err := database.Create(diagnosis).Error; err != nil {
			t.Fatalf("create diagnosis: %v", err)
		}
	}

	antibiotic := models.Treatment{Name: "Antibiotic A", Diagnoses: []models.Diagnosis{fever}}
	painkiller := models.Treatment{Name: "Pain Management", Diagnoses: []models.Diagnosis{lameness}}
	broad := models.Treatment{Name: "Antibiotic B", Diagnoses: []models.Diagnosis{fever, lameness}}
	for _, treatment := range []*models.Treatment{&antibiotic, &painkiller, &broad} {
		if err := database.Create(treatment).Error; err != nil {
			t.Fatalf("create treatment: %v", err)
		}
	}

	treatments, err := repo.ListTreatmentsForDiagnosis(context.Background(), fever.ID)
	if err != nil {
		t.Fatalf("list treatments: %v", err)
	}
	if len(treatments) != 2 {
		t.Fatalf("expected 2 treatments for fever, got %d", len(treatments))
	}
	if treatments[0].Name != "Antibiotic A" || treatments[1].Name != "Antibiotic B" {
		t.Fatalf("unexpected treatment ordering: %s, %s", treatments[0].Name, treatments[1].Name)
	}
}

func TestUpsertDeathRecordKeepsSingleRow(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	_, penA, _ := seedLocation(t, database)
	animal := createAnimal(t, database, "A1001", &penA.ID, "")

	first := models.DeathRecord{
		Reason:    models.DeathInjury,
		Necropsy:  true,
		DeathDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.UpsertDeathRecord(context.Background(), animal.ID, &first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := models.DeathRecord{
		Reason:    models.DeathUnknown,
		Necropsy:  false,
		DeathDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.UpsertDeathRecord(context.Background(), animal.ID, &second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := database.Model(&models.DeathRecord{}).Where("animal_id = ?", animal.ID).Count(&count).Error; err != nil {
		t.Fatalf("count death records: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one death record, got %d", count)
	}

	stored, err := repo.GetDeathRecord(context.Background(), animal.ID)
	if err != nil {
		t.Fatalf("get death record: %v", err)
	}
	if stored.Reason != models.DeathUnknown || stored.Necropsy {
		t.Fatalf("expected updated reason/necropsy, got %+v", stored)
	}
	if stored.ID != second.ID {
		t.Fatalf("upsert must report the surviving row id")
	}

	if _, err := repo.GetDeathRecord(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent record, got %v", err)
	}
}

func TestRealizationRecordsInsertAndFetch(t *testing.T) {
	database := openTestDB(t)
	repo := NewGorm(database)
	_, penA, _ := seedLocation(t, database)
	animal := createAnimal(t, database, "A1001", &penA.ID, "")

	reason := models.Diagnosis{Name: "Chronic"}
	if err := database.Create(&reason).Error; err != nil {
		t.Fatalf("create reason: %v", err)
	}

	weight := 540.0
	record := models.RealizationRecord{
		AnimalID:        animal.ID,
		ReasonID:        reason.ID,
		Weight:          &weight,
		RealizationDate: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.InsertRealizationRecord(context.Background(), &record); err != nil {
		t.Fatalf("insert realization: %v", err)
	}

	stored, err := repo.GetRealizationRecord(context.Background(), animal.ID)
	if err != nil {
		t.Fatalf("get realization: %v", err)
	}
	if stored.ReasonID != reason.ID || stored.Weight == nil || *stored.Weight != weight {
		t.Fatalf("unexpected stored record: %+v", stored)
	}
}
