package service

import (
	"errors"
	"fmt"
	"strings"

	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
)

const defaultPaymentMethod = "Manual"

// MarkInvoicePaid settles one bill. An empty method is recorded as "Manual".
// Paying an already paid bill returns it unchanged.
func (s *WorkflowService) MarkInvoicePaid(billID uint, method string, actorID uint) (bill *models.Bill, err error) {
	defer func() { s.finish("mark_invoice_paid", err, events.TopicBilling, billID) }()

	err = s.store.Transaction(func(tx *repository.Store) error {
		bill, err = tx.Bills.GetBillByID(billID)
		if err != nil {
			return fmt.Errorf("failed to find invoice %d: %w", billID, err)
		}
		if bill.IsPaid() {
			return nil
		}

		if method = strings.TrimSpace(method); method == "" {
			method = defaultPaymentMethod
		}
		paidAt := s.now()
		bill.Status = models.BillStatusPaid
		bill.PaymentMethod = method
		bill.PaidAt = &paidAt
		if err := tx.Bills.UpdateBill(bill); err != nil {
			return fmt.Errorf("failed to mark invoice paid: %w", err)
		}
		return audit(tx, actorID, "invoice_paid", fmt.Sprintf("Invoice %s paid via %s", bill.BillNumber, method))
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// GetInvoice returns nil, nil for an unknown bill
func (s *WorkflowService) GetInvoice(billID uint) (*models.Bill, error) {
	bill, err := s.store.Bills.GetBillByID(billID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return bill, nil
}

// ListInvoices lists a patient's bills oldest first
func (s *WorkflowService) ListInvoices(patientID uint) ([]models.Bill, error) {
	bills, err := s.store.Bills.GetBillsByPatient(patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return bills, nil
}

// GetInvoiceStatement returns the bill with patient details for export, or nil, nil for an unknown bill
func (s *WorkflowService) GetInvoiceStatement(billID uint) (*InvoiceStatement, error) {
	bill, err := s.GetInvoice(billID)
	if err != nil || bill == nil {
		return nil, err
	}

	statement := &InvoiceStatement{Bill: *bill}
	patient, err := s.store.Patients.GetPatientByID(bill.PatientID)
	if errors.Is(err, repository.ErrNotFound) {
		return statement, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	statement.PatientNumber = patient.PatientNumber

	person, err := s.store.Persons.GetPersonByID(patient.PersonID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load person: %w", err)
	}
	if person != nil {
		statement.PatientName = FormatDisplayName(*person)
	}
	if patient.RoomID != nil {
		if room, err := s.store.Rooms.GetRoomByID(*patient.RoomID); err == nil {
			statement.RoomAssignment = FormatRoom(*room)
		}
	}
	policies, err := s.store.Insurance.GetInsuranceByPatient(patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load insurance: %w", err)
	}
	statement.Insurance = FormatInsurance(policies)
	return statement, nil
}
