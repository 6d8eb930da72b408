package service

import (
	"fmt"
	"strings"
	"time"

	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"

	"github.com/shopspring/decimal"
)

const cancelledNote = "cancelled"

// ScheduleAppointmentRequest books a visit. PatientID and DoctorID may hold either
// the role id or the linked user id; unresolved ids fall back to the lowest-id record.
type ScheduleAppointmentRequest struct {
	PatientID    uint      `json:"patient_id"`
	DoctorID     uint      `json:"doctor_id"`
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
	Purpose      string    `json:"purpose"`
}

// CompleteAppointmentRequest closes a visit. A non-empty diagnosis is also written as a
// medical record. ConsultationFee overrides the configured fee; zero raises no invoice.
type CompleteAppointmentRequest struct {
	Diagnosis       string           `json:"diagnosis"`
	Treatment       string           `json:"treatment"`
	Prescription    string           `json:"prescription"`
	Notes           string           `json:"notes"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee"`
}

// ScheduleAppointment creates a Pending appointment
func (s *WorkflowService) ScheduleAppointment(req ScheduleAppointmentRequest, actorID uint) (appointment *models.Appointment, err error) {
	var appointmentID uint
	defer func() { s.finish("schedule_appointment", err, events.TopicAppointments, appointmentID) }()

	if req.ScheduledFor.IsZero() {
		return nil, fmt.Errorf("%w: scheduled time is required", ErrValidation)
	}

	err = s.store.Transaction(func(tx *repository.Store) error {
		r := resolver{st: tx}
		patient, err := r.appointmentPatient(req.PatientID)
		if err != nil {
			return err
		}
		doctor, err := r.appointmentDoctor(req.DoctorID)
		if err != nil {
			return err
		}
		numbers, err := tx.Appointments.AppointmentNumbers()
		if err != nil {
			return fmt.Errorf("failed to read appointment numbers: %w", err)
		}

		appointment = &models.Appointment{
			AppointmentNumber: nextSequenceNumber(appointmentNumberPrefix, numbers),
			PatientID:         patient.ID,
			DoctorID:          doctor.ID,
			ScheduledFor:      req.ScheduledFor.UTC(),
			Purpose:           strings.TrimSpace(req.Purpose),
			Status:            models.AppointmentPending,
		}
		if err := tx.Appointments.CreateAppointment(appointment); err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		appointmentID = appointment.ID

		details := fmt.Sprintf("Scheduled %s for patient %s with doctor ID %d", appointment.AppointmentNumber, patient.PatientNumber, doctor.ID)
		return audit(tx, actorID, "appointment_schedule", details)
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// AcceptAppointment moves a Pending appointment to Accepted
func (s *WorkflowService) AcceptAppointment(appointmentID, actorID uint) (appointment *models.Appointment, err error) {
	defer func() { s.finish("accept_appointment", err, events.TopicAppointments, appointmentID) }()

	err = s.store.Transaction(func(tx *repository.Store) error {
		appointment, err = transition(tx, appointmentID, models.AppointmentAccepted, actorID, nil)
		return err
	})
	return appointment, err
}

// RejectAppointment moves a Pending or Accepted appointment to Rejected
func (s *WorkflowService) RejectAppointment(appointmentID uint, reason string, actorID uint) (appointment *models.Appointment, err error) {
	defer func() { s.finish("reject_appointment", err, events.TopicAppointments, appointmentID) }()

	err = s.store.Transaction(func(tx *repository.Store) error {
		appointment, err = transition(tx, appointmentID, models.AppointmentRejected, actorID, func(a *models.Appointment) error {
			if reason = strings.TrimSpace(reason); reason != "" {
				a.Notes = reason
			}
			return nil
		})
		return err
	})
	return appointment, err
}

// CancelAppointment rejects a Pending or Accepted appointment with the note "cancelled"
func (s *WorkflowService) CancelAppointment(appointmentID, actorID uint) (appointment *models.Appointment, err error) {
	defer func() { s.finish("cancel_appointment", err, events.TopicAppointments, appointmentID) }()

	err = s.store.Transaction(func(tx *repository.Store) error {
		appointment, err = transition(tx, appointmentID, models.AppointmentRejected, actorID, func(a *models.Appointment) error {
			a.Notes = cancelledNote
			return nil
		})
		return err
	})
	return appointment, err
}

// CompleteAppointment moves an Accepted appointment to Completed, recording the
// diagnosis and raising a consultation invoice when the fee is positive.
func (s *WorkflowService) CompleteAppointment(appointmentID uint, req CompleteAppointmentRequest, actorID uint) (result *CompletionResult, err error) {
	defer func() { s.finish("complete_appointment", err, events.TopicAppointments, appointmentID) }()

	fee := s.billing.ConsultationFee
	if req.ConsultationFee != nil {
		fee = *req.ConsultationFee
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("%w: consultation fee cannot be negative", ErrValidation)
	}

	result = &CompletionResult{}
	err = s.store.Transaction(func(tx *repository.Store) error {
		appointment, err := transition(tx, appointmentID, models.AppointmentCompleted, actorID, func(a *models.Appointment) error {
			if d := strings.TrimSpace(req.Diagnosis); d != "" {
				a.Diagnosis = d
			}
			if n := strings.TrimSpace(req.Notes); n != "" {
				a.Notes = n
			}
			return nil
		})
		if err != nil {
			return err
		}
		result.Appointment = *appointment

		if appointment.Diagnosis != "" {
			record := &models.MedicalRecord{
				PatientID:     appointment.PatientID,
				DoctorID:      appointment.DoctorID,
				AppointmentID: &appointment.ID,
				Diagnosis:     appointment.Diagnosis,
				Treatment:     strings.TrimSpace(req.Treatment),
				Prescription:  strings.TrimSpace(req.Prescription),
				RecordedAt:    s.now(),
			}
			if err := tx.MedicalRecords.CreateMedicalRecord(record); err != nil {
				return fmt.Errorf("failed to create medical record: %w", err)
			}
			result.MedicalRecord = record
		}

		if fee.IsPositive() {
			bill, err := s.createBill(tx, &models.Bill{
				PatientID:    appointment.PatientID,
				Description:  fmt.Sprintf("Consultation %s", appointment.AppointmentNumber),
				DoctorCharge: fee,
				Amount:       fee,
			})
			if err != nil {
				return err
			}
			link := &models.AppointmentInvoiceLink{AppointmentID: appointment.ID, BillID: bill.ID}
			if err := tx.Appointments.CreateInvoiceLink(link); err != nil {
				return fmt.Errorf("failed to link invoice: %w", err)
			}
			result.Invoice = bill
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.MedicalRecord != nil {
		s.bus.Publish(events.TopicMedicalRecords, "record_added", result.MedicalRecord.ID)
	}
	if result.Invoice != nil {
		s.bus.Publish(events.TopicBilling, "consultation_invoice", result.Invoice.ID)
	}
	return result, nil
}

// ListAppointments lists appointments, optionally narrowed to a patient or doctor (zero means any)
func (s *WorkflowService) ListAppointments(patientID, doctorID uint) ([]models.Appointment, error) {
	appointments, err := s.store.Appointments.GetAppointments(patientID, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// transition applies a status change allowed by the appointment state machine.
// Disallowed moves fail with ErrInvalidTransition and leave the row untouched.
func transition(tx *repository.Store, appointmentID uint, next models.AppointmentStatus, actorID uint, mutate func(*models.Appointment) error) (*models.Appointment, error) {
	appointment, err := tx.Appointments.GetAppointmentByID(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment %d: %w", appointmentID, err)
	}
	if !appointment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: appointment %s cannot move from %s to %s",
			ErrInvalidTransition, appointment.AppointmentNumber, appointment.Status, next)
	}

	previous := appointment.Status
	appointment.Status = next
	if mutate != nil {
		if err := mutate(appointment); err != nil {
			return nil, err
		}
	}
	if err := tx.Appointments.UpdateAppointment(appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	details := fmt.Sprintf("Appointment %s moved from %s to %s", appointment.AppointmentNumber, previous, next)
	if err := audit(tx, actorID, "appointment_"+strings.ToLower(string(next)), details); err != nil {
		return nil, err
	}
	return appointment, nil
}
