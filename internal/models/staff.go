package models

import "time"

// Availability is the duty status of a doctor or nurse
type Availability string

const (
	AvailabilityOnHold       Availability = "OnHold"
	AvailabilityAvailable    Availability = "Available"
	AvailabilityNotAvailable Availability = "NotAvailable"
)

// Toggle flips between Available and NotAvailable. OnHold is returned unchanged.
func (a Availability) Toggle() Availability {
	switch a {
	case AvailabilityAvailable:
		return AvailabilityNotAvailable
	case AvailabilityNotAvailable:
		return AvailabilityAvailable
	}
	return a
}

// Doctor represents the doctors table
type Doctor struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	PersonID       uint         `gorm:"not null;index" json:"person_id"`
	Person         *Person      `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	LicenseNumber  string       `gorm:"size:50" json:"license_number"`
	Specialization string       `gorm:"size:100" json:"specialization"`
	DepartmentID   *uint        `gorm:"index" json:"department_id"`
	Approved       bool         `json:"approved"`
	Status         Availability `gorm:"size:20;not null" json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TableName specifies the table name for Doctor model
func (Doctor) TableName() string {
	return "doctors"
}

// Nurse represents the nurses table
type Nurse struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	PersonID      uint         `gorm:"not null;index" json:"person_id"`
	Person        *Person      `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	LicenseNumber string       `gorm:"size:50" json:"license_number"`
	Ward          string       `gorm:"size:100" json:"ward"`
	DepartmentID  *uint        `gorm:"index" json:"department_id"`
	Approved      bool         `json:"approved"`
	Status        Availability `gorm:"size:20;not null" json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TableName specifies the table name for Nurse model
func (Nurse) TableName() string {
	return "nurses"
}

// Staff represents the staff table (front desk, billing, records)
type Staff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PersonID     uint      `gorm:"not null;index" json:"person_id"`
	Person       *Person   `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Position     string    `gorm:"size:100" json:"position"`
	DepartmentID *uint     `gorm:"index" json:"department_id"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Staff model
func (Staff) TableName() string {
	return "staff"
}
