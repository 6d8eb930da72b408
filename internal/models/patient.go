package models

import "time"

// Patient represents the patients table.
// DateDischarged is nil while the patient is admitted.
type Patient struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PersonID       uint       `gorm:"not null;index" json:"person_id"`
	Person         *Person    `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	PatientNumber  string     `gorm:"size:20;not null;uniqueIndex" json:"patient_number"`
	DateAdmitted   time.Time  `json:"date_admitted"`
	DateDischarged *time.Time `json:"date_discharged"`
	DoctorID       *uint      `gorm:"index" json:"doctor_id"`
	NurseID        *uint      `gorm:"index" json:"nurse_id"`
	RoomID         *uint      `gorm:"index" json:"room_id"`
	Approved       bool       `json:"approved"`
	Active         bool       `gorm:"index" json:"active"`
	CurrentBillID  *uint      `json:"current_bill_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "patients"
}

// IsCurrentlyAdmitted is derived solely from DateDischarged
func (p Patient) IsCurrentlyAdmitted() bool {
	return p.DateDischarged == nil
}

// Insurance represents a patient's insurance policy
type Insurance struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PatientID    uint      `gorm:"not null;index" json:"patient_id"`
	Provider     string    `gorm:"size:150;not null" json:"provider"`
	PolicyNumber string    `gorm:"size:80;not null" json:"policy_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for Insurance model
func (Insurance) TableName() string {
	return "insurance"
}

// MedicalRecord is a dated diagnosis/treatment entry written by a doctor
type MedicalRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PatientID     uint      `gorm:"not null;index" json:"patient_id"`
	DoctorID      uint      `gorm:"not null;index" json:"doctor_id"`
	AppointmentID *uint     `gorm:"index" json:"appointment_id,omitempty"`
	Diagnosis     string    `gorm:"type:text;not null" json:"diagnosis"`
	Treatment     string    `gorm:"type:text" json:"treatment,omitempty"`
	Prescription  string    `gorm:"type:text" json:"prescription,omitempty"`
	RecordedAt    time.Time `gorm:"not null" json:"recorded_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for MedicalRecord model
func (MedicalRecord) TableName() string {
	return "medical_records"
}
