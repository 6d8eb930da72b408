package service

import (
	"errors"
	"fmt"

	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
)

// OwnRecordID resolves the caller's own role record strictly through User -> Person -> role.
// found is false when the account has no record for role.
func (s *WorkflowService) OwnRecordID(userID uint, role models.Role) (id uint, found bool, err error) {
	personID, err := resolver{st: s.store}.personOfUser(userID)
	if err != nil {
		return missing(err)
	}

	switch role {
	case models.RoleDoctor:
		d, err := s.store.Doctors.GetDoctorByPersonID(personID)
		if err != nil {
			return missing(err)
		}
		return d.ID, true, nil
	case models.RoleNurse:
		n, err := s.store.Nurses.GetNurseByPersonID(personID)
		if err != nil {
			return missing(err)
		}
		return n.ID, true, nil
	case models.RoleStaff:
		st, err := s.store.Staff.GetStaffByPersonID(personID)
		if err != nil {
			return missing(err)
		}
		return st.ID, true, nil
	case models.RolePatient:
		p, err := s.store.Patients.GetPatientByPersonID(personID)
		if err != nil {
			return missing(err)
		}
		return p.ID, true, nil
	}
	return 0, false, nil
}

// ResolveRecordID resolves id the way the workflow operations do: role id first, then user id
func (s *WorkflowService) ResolveRecordID(role models.Role, id uint) (uint, bool, error) {
	r := resolver{st: s.store}
	switch role {
	case models.RoleDoctor:
		d, err := r.doctor(id)
		if err != nil {
			return missing(err)
		}
		return d.ID, true, nil
	case models.RoleNurse:
		n, err := r.nurse(id)
		if err != nil {
			return missing(err)
		}
		return n.ID, true, nil
	case models.RolePatient:
		p, err := r.patient(id)
		if err != nil {
			return missing(err)
		}
		return p.ID, true, nil
	}
	return 0, false, nil
}

// AppointmentParties returns the patient and doctor an appointment belongs to
func (s *WorkflowService) AppointmentParties(appointmentID uint) (patientID, doctorID uint, found bool, err error) {
	appointment, err := s.store.Appointments.GetAppointmentByID(appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to find appointment %d: %w", appointmentID, err)
	}
	return appointment.PatientID, appointment.DoctorID, true, nil
}

func missing(err error) (uint, bool, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("failed to resolve record: %w", err)
}
