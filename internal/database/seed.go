package database

import (
	"fmt"

	"hospital-workflow-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedRooms = []models.Room{
	{Number: 101, Type: models.RoomTypeWard, Capacity: 6},
	{Number: 102, Type: models.RoomTypeWard, Capacity: 6},
	{Number: 201, Type: models.RoomTypePrivate, Capacity: 1},
	{Number: 202, Type: models.RoomTypePrivate, Capacity: 1},
	{Number: 301, Type: models.RoomTypeICU, Capacity: 2},
}

var seedDepartments = []models.Department{
	{Name: "General Medicine", Description: "Outpatient and inpatient internal medicine"},
	{Name: "Surgery", Description: "General and elective surgery"},
	{Name: "Pediatrics", Description: "Care for infants and children"},
	{Name: "Emergency", Description: "Emergency and trauma care"},
}

// SeedReferenceData inserts the baseline rooms, departments, a default nurse and
// a default doctor when their tables are empty. Running it again is a no-op.
func SeedReferenceData(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedTable(tx, &models.Room{}, "rooms", func() error {
			rooms := append([]models.Room(nil), seedRooms...)
			return tx.Create(&rooms).Error
		}, log); err != nil {
			return err
		}

		if err := seedTable(tx, &models.Department{}, "departments", func() error {
			departments := append([]models.Department(nil), seedDepartments...)
			return tx.Create(&departments).Error
		}, log); err != nil {
			return err
		}

		if err := seedTable(tx, &models.Nurse{}, "nurses", func() error {
			person := &models.Person{GivenName: "Default", LastName: "Nurse"}
			if err := tx.Create(person).Error; err != nil {
				return err
			}
			return tx.Create(&models.Nurse{
				PersonID: person.ID,
				Ward:     "General",
				Approved: true,
				Status:   models.AvailabilityAvailable,
			}).Error
		}, log); err != nil {
			return err
		}

		return seedTable(tx, &models.Doctor{}, "doctors", func() error {
			person := &models.Person{GivenName: "Default", LastName: "Doctor"}
			if err := tx.Create(person).Error; err != nil {
				return err
			}
			var general models.Department
			var departmentID *uint
			if err := tx.Where("name = ?", "General Medicine").First(&general).Error; err == nil {
				departmentID = &general.ID
			}
			return tx.Create(&models.Doctor{
				PersonID:       person.ID,
				Specialization: "General Practice",
				DepartmentID:   departmentID,
				Approved:       true,
				Status:         models.AvailabilityAvailable,
			}).Error
		}, log)
	})
}

func seedTable(tx *gorm.DB, model interface{}, table string, insert func() error, log *zap.Logger) error {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count %s: %w", table, err)
	}
	if count > 0 {
		return nil
	}
	if err := insert(); err != nil {
		return fmt.Errorf("failed to seed %s: %w", table, err)
	}
	log.Info("seeded reference data", zap.String("table", table))
	return nil
}
