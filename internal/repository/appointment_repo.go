package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) CreateAppointment(appointment *models.Appointment) error {
	return r.db.Create(appointment).Error
}

func (r *AppointmentRepository) GetAppointmentByID(id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.Where("id = ?", id).First(&appointment).Error; err != nil {
		return nil, notFound(err)
	}
	return &appointment, nil
}

// GetAppointments lists appointments by schedule, optionally narrowed to a patient or doctor (zero means any)
func (r *AppointmentRepository) GetAppointments(patientID, doctorID uint) ([]models.Appointment, error) {
	query := r.db.Model(&models.Appointment{})
	if patientID != 0 {
		query = query.Where("patient_id = ?", patientID)
	}
	if doctorID != 0 {
		query = query.Where("doctor_id = ?", doctorID)
	}
	var appointments []models.Appointment
	err := query.Order("scheduled_for ASC, id ASC").Find(&appointments).Error
	return appointments, err
}

// AppointmentNumbers returns every issued appointment number
func (r *AppointmentRepository) AppointmentNumbers() ([]string, error) {
	var numbers []string
	err := r.db.Model(&models.Appointment{}).Pluck("appointment_number", &numbers).Error
	return numbers, err
}

func (r *AppointmentRepository) UpdateAppointment(appointment *models.Appointment) error {
	return r.db.Save(appointment).Error
}

// CreateInvoiceLink ties an appointment to its consultation bill
func (r *AppointmentRepository) CreateInvoiceLink(link *models.AppointmentInvoiceLink) error {
	return r.db.Create(link).Error
}

func (r *AppointmentRepository) GetInvoiceLink(appointmentID uint) (*models.AppointmentInvoiceLink, error) {
	var link models.AppointmentInvoiceLink
	if err := r.db.Where("appointment_id = ?", appointmentID).First(&link).Error; err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

// CancelOpenAppointmentsByDoctor moves a doctor's Pending and Accepted appointments to Rejected with note
func (r *AppointmentRepository) CancelOpenAppointmentsByDoctor(doctorID uint, note string) (int64, error) {
	open := []models.AppointmentStatus{models.AppointmentPending, models.AppointmentAccepted}
	result := r.db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND status IN ?", doctorID, open).
		Updates(map[string]interface{}{
			"status": models.AppointmentRejected,
			"notes":  note,
		})
	return result.RowsAffected, result.Error
}

// DeleteAppointmentsByPatient removes a patient's appointments and their invoice links
func (r *AppointmentRepository) DeleteAppointmentsByPatient(patientID uint) error {
	sub := r.db.Model(&models.Appointment{}).Select("id").Where("patient_id = ?", patientID)
	if err := r.db.Where("appointment_id IN (?)", sub).Delete(&models.AppointmentInvoiceLink{}).Error; err != nil {
		return err
	}
	return r.db.Where("patient_id = ?", patientID).Delete(&models.Appointment{}).Error
}
