package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type NurseRepository struct {
	db *gorm.DB
}

func NewNurseRepo(db *gorm.DB) *NurseRepository {
	return &NurseRepository{db: db}
}

func (r *NurseRepository) CreateNurse(nurse *models.Nurse) error {
	return r.db.Create(nurse).Error
}

func (r *NurseRepository) GetNurseByID(id uint) (*models.Nurse, error) {
	var nurse models.Nurse
	if err := r.db.Where("id = ?", id).First(&nurse).Error; err != nil {
		return nil, notFound(err)
	}
	return &nurse, nil
}

// GetNurseByPersonID finds the nurse record extending a person
func (r *NurseRepository) GetNurseByPersonID(personID uint) (*models.Nurse, error) {
	var nurse models.Nurse
	if err := r.db.Where("person_id = ?", personID).Order("id ASC").First(&nurse).Error; err != nil {
		return nil, notFound(err)
	}
	return &nurse, nil
}

// GetAllNurses lists nurses with their person rows by ascending ID
func (r *NurseRepository) GetAllNurses() ([]models.Nurse, error) {
	var nurses []models.Nurse
	err := r.db.Preload("Person").Order("id ASC").Find(&nurses).Error
	return nurses, err
}

// GetFirstAvailableNurse returns the lowest-id nurse whose status is Available
func (r *NurseRepository) GetFirstAvailableNurse() (*models.Nurse, error) {
	var nurse models.Nurse
	err := r.db.Where("status = ?", models.AvailabilityAvailable).Order("id ASC").First(&nurse).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &nurse, nil
}

// GetFirstNurse returns the lowest-id nurse regardless of status
func (r *NurseRepository) GetFirstNurse() (*models.Nurse, error) {
	var nurse models.Nurse
	if err := r.db.Order("id ASC").First(&nurse).Error; err != nil {
		return nil, notFound(err)
	}
	return &nurse, nil
}

func (r *NurseRepository) UpdateNurse(nurse *models.Nurse) error {
	return r.db.Omit("Person").Save(nurse).Error
}

func (r *NurseRepository) DeleteNurse(id uint) error {
	return r.db.Delete(&models.Nurse{}, id).Error
}
