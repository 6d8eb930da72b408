package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the payment state of a bill
type BillStatus string

const (
	BillStatusUnpaid BillStatus = "Unpaid"
	BillStatusPaid   BillStatus = "Paid"
)

// Bill represents the bills table (invoices)
type Bill struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	BillNumber     string          `gorm:"size:20;not null;uniqueIndex" json:"bill_number"`
	PatientID      uint            `gorm:"not null;index" json:"patient_id"`
	Description    string          `gorm:"size:255" json:"description"`
	DaysOfStay     int             `json:"days_of_stay"`
	RoomCharge     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"room_charge"`
	DoctorCharge   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"doctor_charge"`
	MedicineCharge decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"medicine_charge"`
	OtherCharges   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"other_charges"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status         BillStatus      `gorm:"size:10;not null;index" json:"status"`
	PaymentMethod  string          `gorm:"size:30" json:"payment_method,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Bill model
func (Bill) TableName() string {
	return "bills"
}

// IsPaid reports whether the bill has been settled
func (b Bill) IsPaid() bool {
	return b.Status == BillStatusPaid
}

// Total sums the individual charges
func (b Bill) Total() decimal.Decimal {
	return b.RoomCharge.Add(b.DoctorCharge).Add(b.MedicineCharge).Add(b.OtherCharges)
}
