package service

import (
	"time"

	"hospital-workflow-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Profile is the role-specific part of an account view.
// Exactly one of the *Profile types below is stored per account.
type Profile interface {
	Role() models.Role
}

type AdminProfile struct{}

func (AdminProfile) Role() models.Role { return models.RoleAdmin }

type DoctorProfile struct {
	DoctorID       uint                `json:"doctor_id"`
	LicenseNumber  string              `json:"license_number"`
	Specialization string              `json:"specialization"`
	DepartmentID   *uint               `json:"department_id,omitempty"`
	Approved       bool                `json:"approved"`
	Status         models.Availability `json:"status"`
}

func (DoctorProfile) Role() models.Role { return models.RoleDoctor }

type NurseProfile struct {
	NurseID       uint                `json:"nurse_id"`
	LicenseNumber string              `json:"license_number"`
	Ward          string              `json:"ward"`
	DepartmentID  *uint               `json:"department_id,omitempty"`
	Approved      bool                `json:"approved"`
	Status        models.Availability `json:"status"`
}

func (NurseProfile) Role() models.Role { return models.RoleNurse }

type StaffProfile struct {
	StaffID      uint   `json:"staff_id"`
	Position     string `json:"position"`
	DepartmentID *uint  `json:"department_id,omitempty"`
	Approved     bool   `json:"approved"`
}

func (StaffProfile) Role() models.Role { return models.RoleStaff }

type PatientProfile struct {
	PatientID         uint       `json:"patient_id"`
	PatientNumber     string     `json:"patient_number"`
	DateAdmitted      time.Time  `json:"date_admitted"`
	DateDischarged    *time.Time `json:"date_discharged,omitempty"`
	CurrentlyAdmitted bool       `json:"currently_admitted"`
	DoctorID          *uint      `json:"doctor_id,omitempty"`
	NurseID           *uint      `json:"nurse_id,omitempty"`
	RoomID            *uint      `json:"room_id,omitempty"`
	CurrentBillID     *uint      `json:"current_bill_id,omitempty"`
	Approved          bool       `json:"approved"`
	Active            bool       `json:"active"`
}

func (PatientProfile) Role() models.Role { return models.RolePatient }

// AccountView is the denormalized account shown to callers.
// UserID and Username are empty for role records that have no login account.
type AccountView struct {
	UserID            uint        `json:"user_id,omitempty"`
	Username          string      `json:"username,omitempty"`
	Role              models.Role `json:"role"`
	PersonID          uint        `json:"person_id"`
	DisplayName       string      `json:"display_name"`
	GivenName         string      `json:"given_name"`
	MiddleName        string      `json:"middle_name,omitempty"`
	LastName          string      `json:"last_name"`
	Suffix            string      `json:"suffix,omitempty"`
	BirthDate         *time.Time  `json:"birth_date,omitempty"`
	Sex               string      `json:"sex,omitempty"`
	ContactNumber     string      `json:"contact_number,omitempty"`
	Address           string      `json:"address,omitempty"`
	EmergencyContact  string      `json:"emergency_contact,omitempty"`
	EmergencyNumber   string      `json:"emergency_number,omitempty"`
	Nationality       string      `json:"nationality,omitempty"`
	IsActive          bool        `json:"is_active"`
	HasUnpaidBills    bool        `json:"has_unpaid_bills"`
	InsuranceProvider string      `json:"insurance_provider,omitempty"`
	RoomAssignment    string      `json:"room_assignment,omitempty"`
	Profile           Profile     `json:"profile,omitempty"`
}

// Approved reports the role record's approval flag. Admins count as approved.
func (v AccountView) Approved() bool {
	switch p := v.Profile.(type) {
	case AdminProfile:
		return true
	case DoctorProfile:
		return p.Approved
	case NurseProfile:
		return p.Approved
	case StaffProfile:
		return p.Approved
	case PatientProfile:
		return p.Approved
	}
	return false
}

// CreatedAccount is returned once when an account is generated; the temporary password is not stored in clear
type CreatedAccount struct {
	Account           AccountView `json:"account"`
	TemporaryPassword string      `json:"temporary_password"`
}

// DischargeResult carries the updated patient and the discharge invoice if one was raised
type DischargeResult struct {
	Patient models.Patient `json:"patient"`
	Invoice *models.Bill   `json:"invoice,omitempty"`
}

// ReactivationResult reports what reactivation changed
type ReactivationResult struct {
	Patient      models.Patient `json:"patient"`
	BillsSettled int64          `json:"bills_settled"`
}

// CompletionResult carries what completing an appointment produced
type CompletionResult struct {
	Appointment   models.Appointment    `json:"appointment"`
	MedicalRecord *models.MedicalRecord `json:"medical_record,omitempty"`
	Invoice       *models.Bill          `json:"invoice,omitempty"`
}

// InvoiceStatement is a bill with the patient details an exported statement prints
type InvoiceStatement struct {
	Bill           models.Bill `json:"bill"`
	PatientNumber  string      `json:"patient_number"`
	PatientName    string      `json:"patient_name"`
	RoomAssignment string      `json:"room_assignment,omitempty"`
	Insurance      string      `json:"insurance,omitempty"`
}

// Balance is the amount still owed on the bill
func (s InvoiceStatement) Balance() decimal.Decimal {
	if s.Bill.IsPaid() {
		return decimal.Zero
	}
	return s.Bill.Amount
}

// MedicalHistoryEntry is one record with the writing doctor's name resolved
type MedicalHistoryEntry struct {
	Record     models.MedicalRecord `json:"record"`
	DoctorName string               `json:"doctor_name"`
}

// MedicalHistory is a patient's records newest first
type MedicalHistory struct {
	PatientNumber string                `json:"patient_number"`
	PatientName   string                `json:"patient_name"`
	Entries       []MedicalHistoryEntry `json:"entries"`
}

// RoomView is a room with its live occupancy
type RoomView struct {
	models.Room
	Occupants int64  `json:"occupants"`
	Available bool   `json:"available"`
	Display   string `json:"display"`
}
