package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type MedicalRecordRepository struct {
	db *gorm.DB
}

func NewMedicalRecordRepo(db *gorm.DB) *MedicalRecordRepository {
	return &MedicalRecordRepository{db: db}
}

func (r *MedicalRecordRepository) CreateMedicalRecord(record *models.MedicalRecord) error {
	return r.db.Create(record).Error
}

// GetMedicalRecordsByPatient lists a patient's records newest first
func (r *MedicalRecordRepository) GetMedicalRecordsByPatient(patientID uint) ([]models.MedicalRecord, error) {
	var records []models.MedicalRecord
	err := r.db.Where("patient_id = ?", patientID).Order("recorded_at DESC, id DESC").Find(&records).Error
	return records, err
}

func (r *MedicalRecordRepository) DeleteMedicalRecordsByPatient(patientID uint) error {
	return r.db.Where("patient_id = ?", patientID).Delete(&models.MedicalRecord{}).Error
}
