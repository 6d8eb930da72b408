package service

import (
	"errors"
	"fmt"
	"strings"

	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
)

// MedicalRecordRequest writes a record outside an appointment. Ids may be role ids or user ids.
type MedicalRecordRequest struct {
	PatientID     uint   `json:"patient_id" binding:"required"`
	DoctorID      uint   `json:"doctor_id" binding:"required"`
	AppointmentID *uint  `json:"appointment_id"`
	Diagnosis     string `json:"diagnosis" binding:"required"`
	Treatment     string `json:"treatment"`
	Prescription  string `json:"prescription"`
}

// AddMedicalRecord stores a dated diagnosis for a patient
func (s *WorkflowService) AddMedicalRecord(req MedicalRecordRequest, actorID uint) (record *models.MedicalRecord, err error) {
	var recordID uint
	defer func() { s.finish("add_medical_record", err, events.TopicMedicalRecords, recordID) }()

	diagnosis := strings.TrimSpace(req.Diagnosis)
	if diagnosis == "" {
		return nil, fmt.Errorf("%w: diagnosis is required", ErrValidation)
	}

	err = s.store.Transaction(func(tx *repository.Store) error {
		r := resolver{st: tx}
		patient, err := r.patient(req.PatientID)
		if err != nil {
			return fmt.Errorf("failed to find patient %d: %w", req.PatientID, err)
		}
		doctor, err := r.doctor(req.DoctorID)
		if err != nil {
			return fmt.Errorf("failed to find doctor %d: %w", req.DoctorID, err)
		}
		if req.AppointmentID != nil {
			appointment, err := tx.Appointments.GetAppointmentByID(*req.AppointmentID)
			if err != nil {
				return fmt.Errorf("failed to find appointment %d: %w", *req.AppointmentID, err)
			}
			if appointment.PatientID != patient.ID {
				return fmt.Errorf("%w: appointment %s belongs to another patient", ErrValidation, appointment.AppointmentNumber)
			}
		}

		record = &models.MedicalRecord{
			PatientID:     patient.ID,
			DoctorID:      doctor.ID,
			AppointmentID: req.AppointmentID,
			Diagnosis:     diagnosis,
			Treatment:     strings.TrimSpace(req.Treatment),
			Prescription:  strings.TrimSpace(req.Prescription),
			RecordedAt:    s.now(),
		}
		if err := tx.MedicalRecords.CreateMedicalRecord(record); err != nil {
			return fmt.Errorf("failed to create medical record: %w", err)
		}
		recordID = record.ID
		return audit(tx, actorID, "medical_record_add", fmt.Sprintf("Added medical record for patient %s", patient.PatientNumber))
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListMedicalRecords lists a patient's records newest first
func (s *WorkflowService) ListMedicalRecords(patientID uint) ([]models.MedicalRecord, error) {
	records, err := s.store.MedicalRecords.GetMedicalRecordsByPatient(patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

// GetMedicalHistory returns a patient's records with doctor names, or nil, nil for an unknown patient
func (s *WorkflowService) GetMedicalHistory(patientID uint) (*MedicalHistory, error) {
	patient, err := s.store.Patients.GetPatientByID(patientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	history := &MedicalHistory{PatientNumber: patient.PatientNumber}
	if person, err := s.store.Persons.GetPersonByID(patient.PersonID); err == nil {
		history.PatientName = FormatDisplayName(*person)
	}

	records, err := s.ListMedicalRecords(patient.ID)
	if err != nil {
		return nil, err
	}
	doctorNames := map[uint]string{}
	for _, record := range records {
		name, ok := doctorNames[record.DoctorID]
		if !ok {
			name = s.doctorName(record.DoctorID)
			doctorNames[record.DoctorID] = name
		}
		history.Entries = append(history.Entries, MedicalHistoryEntry{Record: record, DoctorName: name})
	}
	return history, nil
}

// doctorName is blank when the doctor has since been removed
func (s *WorkflowService) doctorName(doctorID uint) string {
	doctor, err := s.store.Doctors.GetDoctorByID(doctorID)
	if err != nil {
		return ""
	}
	person, err := s.store.Persons.GetPersonByID(doctor.PersonID)
	if err != nil {
		return ""
	}
	return FormatDisplayName(*person)
}
