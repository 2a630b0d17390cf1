package mock

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"penside/internal/db"
	applog "penside/internal/log"
	"penside/models"
)

// New returns an in-memory sqlite database seeded with representative yard
// data: three lots, their pens plus the lot-independent hospital pens, the
// diagnosis/treatment protocol table and a handful of animals.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:penside-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte("penside"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Dr. John Smith",
		Email:        "vet@penside.app",
		PasswordHash: string(password),
	}
	if err := database.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	lots := []*models.Lot{
		{LotNumber: "L001"},
		{LotNumber: "L002"},
		{LotNumber: "L003"},
	}
	for _, lot := range lots {
		if err := database.WithContext(ctx).Create(lot).Error; err != nil {
			return err
		}
	}

	pens := []*models.Pen{
		{PenNumber: "P001", LotID: &lots[0].ID},
		{PenNumber: "P002", LotID: &lots[0].ID},
		{PenNumber: "P003", LotID: &lots[1].ID},
		{PenNumber: "P004", LotID: &lots[1].ID},
		{PenNumber: "P005", LotID: &lots[2].ID},
		{PenNumber: "Hospital"},
		{PenNumber: "Buller"},
		{PenNumber: "Home"},
	}
	for _, pen := range pens {
		if err := database.WithContext(ctx).Create(pen).Error; err != nil {
			return err
		}
	}

	diagnoses := []*models.Diagnosis{
		{Name: "Respiratory Disease"},
		{Name: "Lameness"},
		{Name: "Digestive Issues"},
		{Name: "Eye Infection"},
		{Name: "Fever"},
	}
	for _, diagnosis := range diagnoses {
		if err := database.WithContext(ctx).Create(diagnosis).Error; err != nil {
			return err
		}
	}

	treatments := []struct {
		name      string
		diagnoses []int
	}{
		{"Antibiotic A", []int{0, 4}},
		{"Antibiotic B", []int{0, 3, 4}},
		{"Anti-inflammatory", []int{1, 2}},
		{"Pain Management", []int{1}},
		{"Eye Drops", []int{3}},
		{"Digestive Aid", []int{2}},
		{"Fever Reducer", []int{4}},
	}
	for _, entry := range treatments {
		treatment := &models.Treatment{Name: entry.name}
		for _, idx := range entry.diagnoses {
			treatment.Diagnoses = append(treatment.Diagnoses, *diagnoses[idx])
		}
		if err := database.WithContext(ctx).Create(treatment).Error; err != nil {
			return err
		}
	}

	animals := []*models.Animal{
		{VisualTag: "A1001", Gender: models.GenderSteer, DaysOnFeed: 45, DaysToShip: 30, LTDTreatmentCost: 120.50, Pulls: 1, PenID: &pens[0].ID, EID: "EID-ABC9823"},
		{VisualTag: "A1002", Gender: models.GenderCow, DaysOnFeed: 30, DaysToShip: 45, LTDTreatmentCost: 85.25, Pulls: 2, RePulls: 1, ReTreat: 1, PenID: &pens[0].ID, EID: "EID-DEF4411"},
		{VisualTag: "A1003", Gender: models.GenderSteer, DaysOnFeed: 60, DaysToShip: 15, LTDTreatmentCost: 150.75, PenID: &pens[1].ID},
		{VisualTag: "A2001", Gender: models.GenderSteer, DaysOnFeed: 20, DaysToShip: 70, LTDTreatmentCost: 42.00, PenID: &pens[2].ID, EID: "EID-GHI7730"},
		{VisualTag: "A3001", Gender: models.GenderCow, DaysOnFeed: 90, DaysToShip: 5, LTDTreatmentCost: 230.10, Pulls: 3, RePulls: 1, ReTreat: 2, PenID: &pens[4].ID},
		{VisualTag: "A3002", Gender: models.GenderSteer, DaysOnFeed: 12, DaysToShip: 80, PenID: &pens[5].ID},
	}
	for _, animal := range animals {
		animal.Status = models.StatusActive
		if err := database.WithContext(ctx).Create(animal).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded",
		"lots", len(lots),
		"pens", len(pens),
		"animals", len(animals),
	)
	return nil
}
