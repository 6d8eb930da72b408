package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) CreatePatient(patient *models.Patient) error {
	return r.db.Omit("Person").Create(patient).Error
}

func (r *PatientRepository) GetPatientByID(id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.Where("id = ?", id).First(&patient).Error; err != nil {
		return nil, notFound(err)
	}
	return &patient, nil
}

// GetPatientByPersonID finds the patient record extending a person
func (r *PatientRepository) GetPatientByPersonID(personID uint) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.Where("person_id = ?", personID).Order("id ASC").First(&patient).Error; err != nil {
		return nil, notFound(err)
	}
	return &patient, nil
}

// GetFirstPatient returns the lowest-id patient
func (r *PatientRepository) GetFirstPatient() (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.Order("id ASC").First(&patient).Error; err != nil {
		return nil, notFound(err)
	}
	return &patient, nil
}

// GetAllPatients lists patients with their person rows by ascending ID
func (r *PatientRepository) GetAllPatients() ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.Preload("Person").Order("id ASC").Find(&patients).Error
	return patients, err
}

// PatientNumbers returns every issued patient number
func (r *PatientRepository) PatientNumbers() ([]string, error) {
	var numbers []string
	err := r.db.Model(&models.Patient{}).Pluck("patient_number", &numbers).Error
	return numbers, err
}

// CountAdmittedInRoom counts currently admitted patients assigned to a room
func (r *PatientRepository) CountAdmittedInRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Patient{}).
		Where("room_id = ? AND date_discharged IS NULL", roomID).
		Count(&count).Error
	return count, err
}

// ClearDoctor unassigns a doctor from every patient
func (r *PatientRepository) ClearDoctor(doctorID uint) error {
	return r.db.Model(&models.Patient{}).Where("doctor_id = ?", doctorID).Update("doctor_id", nil).Error
}

// ClearNurse unassigns a nurse from every patient
func (r *PatientRepository) ClearNurse(nurseID uint) error {
	return r.db.Model(&models.Patient{}).Where("nurse_id = ?", nurseID).Update("nurse_id", nil).Error
}

func (r *PatientRepository) UpdatePatient(patient *models.Patient) error {
	return r.db.Omit("Person").Save(patient).Error
}

func (r *PatientRepository) DeletePatient(id uint) error {
	return r.db.Delete(&models.Patient{}, id).Error
}
