package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"penside/internal/db"
	"penside/models"
)

// withTestHandlers swaps the package dependencies for an in-memory database
// and a fresh session manager, restoring the originals on cleanup.
func withTestHandlers(t *testing.T) (*gorm.DB, *scs.SessionManager) {
	t.Helper()

	originalSM := sessionManager
	originalDB := database

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(testDB); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	sm := scs.New()
	Configure(sm, testDB)

	t.Cleanup(func() {
		Configure(originalSM, originalDB)
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return testDB, sm
}

// authenticateRequest loads a session context onto the request and marks it
// signed in as the given user.
func authenticateRequest(t *testing.T, sm *scs.SessionManager, req *http.Request, userID uint) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionUserIDKey, int(userID))
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	return req
}

// sessionContext returns a bare loaded session context for reuse across
// several requests in one test.
func sessionContext(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return ctx
}

type yardSeed struct {
	lot       models.Lot
	penA      models.Pen
	penB      models.Pen
	hospital  models.Pen
	diagnosis models.Diagnosis
	treatment models.Treatment
}

func seedYard(t *testing.T, database *gorm.DB) yardSeed {
	t.Helper()

	seed := yardSeed{lot: models.Lot{LotNumber: "L001"}}
	if err := database.Create(&seed.lot).Error; err != nil {
		t.Fatalf("create lot: %v", err)
	}

	seed.penA = models.Pen{PenNumber: "P001", LotID: &seed.lot.ID}
	seed.penB = models.Pen{PenNumber: "P002", LotID: &seed.lot.ID}
	seed.hospital = models.Pen{PenNumber: "Hospital"}
	for _, pen := range []*models.Pen{&seed.penA, &seed.penB, &seed.hospital} {
		if err := database.Create(pen).Error; err != nil {
			t.Fatalf("create pen: %v", err)
		}
	}

	seed.diagnosis = models.Diagnosis{Name: "Respiratory Disease"}
	if err := database.Create(&seed.diagnosis).Error; err != nil {
		t.Fatalf("create diagnosis: %v", err)
	}
	seed.treatment = models.Treatment{Name: "Antibiotic A", Diagnoses: []models.Diagnosis{seed.diagnosis}}
	if err := database.Create(&seed.treatment).Error; err != nil {
		t.Fatalf("create treatment: %v", err)
	}
	return seed
}

func seedAnimal(t *testing.T, database *gorm.DB, tag string, status models.AnimalStatus, penID *uint, eid string) models.Animal {
	t.Helper()
	animal := models.Animal{
		VisualTag: tag,
		Gender:    models.GenderSteer,
		Status:    status,
		PenID:     penID,
		EID:       eid,
	}
	if err := database.Create(&animal).Error; err != nil {
		t.Fatalf("create animal %s: %v", tag, err)
	}
	return animal
}
