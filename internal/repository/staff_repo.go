package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) CreateStaff(staff *models.Staff) error {
	return r.db.Create(staff).Error
}

func (r *StaffRepository) GetStaffByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.Where("id = ?", id).First(&staff).Error; err != nil {
		return nil, notFound(err)
	}
	return &staff, nil
}

func (r *StaffRepository) GetAllStaff() ([]models.Staff, error) {
	var staff []models.Staff
	err := r.db.Preload("Person").Order("id ASC").Find(&staff).Error
	return staff, err
}

func (r *StaffRepository) UpdateStaff(staff *models.Staff) error {
	return r.db.Omit("Person").Save(staff).Error
}

func (r *StaffRepository) DeleteStaff(id uint) error {
	return r.db.Delete(&models.Staff{}, id).Error
}

// GetStaffByPersonID finds the staff record extending a person
func (r *StaffRepository) GetStaffByPersonID(personID uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.Where("person_id = ?", personID).Order("id ASC").First(&staff).Error; err != nil {
		return nil, notFound(err)
	}
	return &staff, nil
}
