package models

import "time"

// AppointmentStatus moves Pending -> Accepted -> Completed, or to Rejected from Pending/Accepted
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "Pending"
	AppointmentAccepted  AppointmentStatus = "Accepted"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentRejected  AppointmentStatus = "Rejected"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:  {AppointmentAccepted, AppointmentRejected},
	AppointmentAccepted: {AppointmentCompleted, AppointmentRejected},
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment represents the appointments table
type Appointment struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	AppointmentNumber string            `gorm:"size:20;not null;uniqueIndex" json:"appointment_number"`
	PatientID         uint              `gorm:"not null;index" json:"patient_id"`
	DoctorID          uint              `gorm:"not null;index" json:"doctor_id"`
	ScheduledFor      time.Time         `gorm:"not null" json:"scheduled_for"`
	Purpose           string            `gorm:"type:text" json:"purpose"`
	Diagnosis         string            `gorm:"type:text" json:"diagnosis,omitempty"`
	Notes             string            `gorm:"type:text" json:"notes,omitempty"`
	Status            AppointmentStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TableName specifies the table name for Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentInvoiceLink ties a completed appointment to the bill raised for it
type AppointmentInvoiceLink struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppointmentID uint      `gorm:"not null;uniqueIndex" json:"appointment_id"`
	BillID        uint      `gorm:"not null;index" json:"bill_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for AppointmentInvoiceLink model
func (AppointmentInvoiceLink) TableName() string {
	return "appointment_invoice_links"
}
