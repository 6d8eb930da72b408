package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type InsuranceRepository struct {
	db *gorm.DB
}

func NewInsuranceRepo(db *gorm.DB) *InsuranceRepository {
	return &InsuranceRepository{db: db}
}

func (r *InsuranceRepository) CreateInsurance(insurance *models.Insurance) error {
	return r.db.Create(insurance).Error
}

func (r *InsuranceRepository) GetInsuranceByPatient(patientID uint) ([]models.Insurance, error) {
	var policies []models.Insurance
	err := r.db.Where("patient_id = ?", patientID).Order("id ASC").Find(&policies).Error
	return policies, err
}

func (r *InsuranceRepository) GetAllInsurance() ([]models.Insurance, error) {
	var policies []models.Insurance
	err := r.db.Order("id ASC").Find(&policies).Error
	return policies, err
}

func (r *InsuranceRepository) DeleteInsuranceByPatient(patientID uint) error {
	return r.db.Where("patient_id = ?", patientID).Delete(&models.Insurance{}).Error
}
