package service

import (
	"errors"
	"fmt"
	"time"

	"hospital-workflow-backend/internal/config"
	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"

	"github.com/shopspring/decimal"
)

const settlementPaymentMethod = "Settlement"

// DischargePatient releases an admitted patient. With generateInvoice set, the stay is
// billed: the open empty admission bill is filled in, otherwise a new bill is raised.
func (s *WorkflowService) DischargePatient(patientID uint, generateInvoice bool, actorID uint) (result *DischargeResult, err error) {
	defer func() { s.finish("discharge_patient", err, events.TopicAdmissions, patientID) }()

	err = s.store.Transaction(func(tx *repository.Store) error {
		patient, err := resolver{st: tx}.patient(patientID)
		if err != nil {
			return fmt.Errorf("failed to find patient %d: %w", patientID, err)
		}
		if !patient.IsCurrentlyAdmitted() {
			return fmt.Errorf("%w: patient %s is already discharged", ErrConflict, patient.PatientNumber)
		}

		released := s.now()
		patient.DateDischarged = &released
		patient.Active = false
		result = &DischargeResult{}

		if generateInvoice {
			invoice, err := s.dischargeInvoice(tx, patient, released)
			if err != nil {
				return err
			}
			patient.CurrentBillID = &invoice.ID
			result.Invoice = invoice
		}

		if err := tx.Patients.UpdatePatient(patient); err != nil {
			return fmt.Errorf("failed to discharge patient: %w", err)
		}
		result.Patient = *patient
		return audit(tx, actorID, "patient_discharge", fmt.Sprintf("Discharged patient %s", patient.PatientNumber))
	})
	if err != nil {
		return nil, err
	}
	if result.Invoice != nil {
		s.bus.Publish(events.TopicBilling, "discharge_invoice", result.Invoice.ID)
	}
	return result, nil
}

// dischargeInvoice prices the stay and stores it on the open admission bill or a new bill
func (s *WorkflowService) dischargeInvoice(tx *repository.Store, patient *models.Patient, released time.Time) (*models.Bill, error) {
	var room *models.Room
	if patient.RoomID != nil {
		r, err := tx.Rooms.GetRoomByID(*patient.RoomID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load room: %w", err)
		}
		room = r
	}

	charges := priceStay(s.billing, room, patient.DateAdmitted, released)

	if patient.CurrentBillID != nil {
		open, err := tx.Bills.GetBillByID(*patient.CurrentBillID)
		switch {
		case err == nil && !open.IsPaid() && open.Amount.IsZero():
			charges.applyTo(open)
			if err := tx.Bills.UpdateBill(open); err != nil {
				return nil, fmt.Errorf("failed to update admission bill: %w", err)
			}
			return open, nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("failed to load admission bill: %w", err)
		}
	}

	bill := &models.Bill{PatientID: patient.ID}
	charges.applyTo(bill)
	return s.createBill(tx, bill)
}

// stayCharges is a priced hospital stay
type stayCharges struct {
	days     int
	room     decimal.Decimal
	doctor   decimal.Decimal
	medicine decimal.Decimal
	other    decimal.Decimal
}

func (c stayCharges) applyTo(b *models.Bill) {
	b.Description = fmt.Sprintf("Discharge: %d day(s) of stay", c.days)
	b.DaysOfStay = c.days
	b.RoomCharge = c.room
	b.DoctorCharge = c.doctor
	b.MedicineCharge = c.medicine
	b.OtherCharges = c.other
	b.Amount = b.Total()
}

// priceStay bills whole days between admission and release, at least one,
// at the room type's daily rate plus the fixed doctor, medicine and other charges.
func priceStay(rates config.BillingConfig, room *models.Room, admitted, released time.Time) stayCharges {
	days := int(released.Sub(admitted).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return stayCharges{
		days:     days,
		room:     dailyRate(rates, room).Mul(decimal.NewFromInt(int64(days))),
		doctor:   rates.DoctorFee,
		medicine: rates.MedicineFee,
		other:    rates.OtherCharges,
	}
}

func dailyRate(rates config.BillingConfig, room *models.Room) decimal.Decimal {
	if room == nil {
		return rates.DefaultDailyRate
	}
	switch room.Type {
	case models.RoomTypeICU:
		return rates.ICUDailyRate
	case models.RoomTypePrivate:
		return rates.PrivateDailyRate
	}
	return rates.DefaultDailyRate
}

// ReactivatePatient readmits a discharged patient. Every unpaid bill is settled in bulk,
// and a missing or full room and a missing doctor are replaced by fallbacks.
func (s *WorkflowService) ReactivatePatient(patientID, actorID uint) (result *ReactivationResult, err error) {
	defer func() { s.finish("reactivate_patient", err, events.TopicAdmissions, patientID) }()

	err = s.store.Transaction(func(tx *repository.Store) error {
		r := resolver{st: tx}
		patient, err := r.patient(patientID)
		if err != nil {
			return fmt.Errorf("failed to find patient %d: %w", patientID, err)
		}
		if patient.IsCurrentlyAdmitted() {
			return fmt.Errorf("%w: patient %s is currently admitted", ErrConflict, patient.PatientNumber)
		}

		now := s.now()
		settled, err := tx.Bills.SettleUnpaidBills(patient.ID, settlementPaymentMethod, now)
		if err != nil {
			return fmt.Errorf("failed to settle bills: %w", err)
		}

		if err := s.reassignRoom(r, patient); err != nil {
			return err
		}
		if patient.DoctorID != nil {
			_, err := tx.Doctors.GetDoctorByID(*patient.DoctorID)
			if errors.Is(err, repository.ErrNotFound) {
				patient.DoctorID = nil
			} else if err != nil {
				return fmt.Errorf("failed to load doctor: %w", err)
			}
		}
		if patient.DoctorID == nil {
			doctor, err := r.doctorOrDefault(nil)
			if err != nil {
				return err
			}
			patient.DoctorID = &doctor.ID
		}

		patient.DateDischarged = nil
		patient.DateAdmitted = now
		patient.Active = true
		patient.CurrentBillID = nil
		if err := tx.Patients.UpdatePatient(patient); err != nil {
			return fmt.Errorf("failed to reactivate patient: %w", err)
		}

		result = &ReactivationResult{Patient: *patient, BillsSettled: settled}
		details := fmt.Sprintf("Reactivated patient %s, settled %d bill(s)", patient.PatientNumber, settled)
		return audit(tx, actorID, "patient_reactivate", details)
	})
	if err != nil {
		return nil, err
	}
	if result.BillsSettled > 0 {
		s.bus.Publish(events.TopicBilling, "bills_settled", result.Patient.ID)
	}
	return result, nil
}

// reassignRoom keeps the patient's room when it still exists and has space
func (s *WorkflowService) reassignRoom(r resolver, patient *models.Patient) error {
	if patient.RoomID != nil {
		room, err := r.st.Rooms.GetRoomByID(*patient.RoomID)
		switch {
		case err == nil:
			full, err := r.roomIsFull(room)
			if err != nil {
				return err
			}
			if !full {
				return nil
			}
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("failed to load room: %w", err)
		}
	}
	room, err := r.fallbackRoom(true)
	if err != nil {
		return err
	}
	patient.RoomID = &room.ID
	return nil
}
