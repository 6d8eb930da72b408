package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepo(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) CreateDoctor(doctor *models.Doctor) error {
	return r.db.Create(doctor).Error
}

func (r *DoctorRepository) GetDoctorByID(id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.Where("id = ?", id).First(&doctor).Error; err != nil {
		return nil, notFound(err)
	}
	return &doctor, nil
}

// GetDoctorByPersonID finds the doctor record extending a person
func (r *DoctorRepository) GetDoctorByPersonID(personID uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.Where("person_id = ?", personID).Order("id ASC").First(&doctor).Error; err != nil {
		return nil, notFound(err)
	}
	return &doctor, nil
}

// GetAllDoctors lists doctors with their person rows by ascending ID
func (r *DoctorRepository) GetAllDoctors() ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := r.db.Preload("Person").Order("id ASC").Find(&doctors).Error
	return doctors, err
}

// GetFirstAvailableDoctor returns the lowest-id doctor whose status is Available
func (r *DoctorRepository) GetFirstAvailableDoctor() (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.Where("status = ?", models.AvailabilityAvailable).Order("id ASC").First(&doctor).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &doctor, nil
}

// GetFirstDoctor returns the lowest-id doctor regardless of status
func (r *DoctorRepository) GetFirstDoctor() (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.Order("id ASC").First(&doctor).Error; err != nil {
		return nil, notFound(err)
	}
	return &doctor, nil
}

func (r *DoctorRepository) UpdateDoctor(doctor *models.Doctor) error {
	return r.db.Omit("Person").Save(doctor).Error
}

func (r *DoctorRepository) DeleteDoctor(id uint) error {
	return r.db.Delete(&models.Doctor{}, id).Error
}
