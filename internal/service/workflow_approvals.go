package service

import (
	"fmt"

	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
)

// ApproveStaff marks a staff member approved
func (s *WorkflowService) ApproveStaff(staffID, actorID uint) (err error) {
	defer func() { s.finish("approve_staff", err, events.TopicAdmissions, staffID) }()

	return s.store.Transaction(func(tx *repository.Store) error {
		staff, err := tx.Staff.GetStaffByID(staffID)
		if err != nil {
			return fmt.Errorf("failed to find staff %d: %w", staffID, err)
		}
		staff.Approved = true
		if err := tx.Staff.UpdateStaff(staff); err != nil {
			return fmt.Errorf("failed to approve staff: %w", err)
		}
		return audit(tx, actorID, "staff_approve", fmt.Sprintf("Approved staff ID %d", staff.ID))
	})
}

// ApproveDoctor marks a doctor approved and Available
func (s *WorkflowService) ApproveDoctor(doctorID, actorID uint) (err error) {
	defer func() { s.finish("approve_doctor", err, events.TopicAdmissions, doctorID) }()

	return s.store.Transaction(func(tx *repository.Store) error {
		doctor, err := resolver{st: tx}.doctor(doctorID)
		if err != nil {
			return fmt.Errorf("failed to find doctor %d: %w", doctorID, err)
		}
		doctor.Approved = true
		doctor.Status = models.AvailabilityAvailable
		if err := tx.Doctors.UpdateDoctor(doctor); err != nil {
			return fmt.Errorf("failed to approve doctor: %w", err)
		}
		return audit(tx, actorID, "doctor_approve", fmt.Sprintf("Approved doctor ID %d", doctor.ID))
	})
}

// ApproveNurse marks a nurse approved. A nurse still OnHold becomes Available.
func (s *WorkflowService) ApproveNurse(nurseID, actorID uint) (err error) {
	defer func() { s.finish("approve_nurse", err, events.TopicAdmissions, nurseID) }()

	return s.store.Transaction(func(tx *repository.Store) error {
		nurse, err := resolver{st: tx}.nurse(nurseID)
		if err != nil {
			return fmt.Errorf("failed to find nurse %d: %w", nurseID, err)
		}
		nurse.Approved = true
		if nurse.Status == models.AvailabilityOnHold {
			nurse.Status = models.AvailabilityAvailable
		}
		if err := tx.Nurses.UpdateNurse(nurse); err != nil {
			return fmt.Errorf("failed to approve nurse: %w", err)
		}
		return audit(tx, actorID, "nurse_approve", fmt.Sprintf("Approved nurse ID %d", nurse.ID))
	})
}

// ApprovePatient marks a patient approved
func (s *WorkflowService) ApprovePatient(patientID, actorID uint) (err error) {
	defer func() { s.finish("approve_patient", err, events.TopicAdmissions, patientID) }()

	return s.store.Transaction(func(tx *repository.Store) error {
		patient, err := resolver{st: tx}.patient(patientID)
		if err != nil {
			return fmt.Errorf("failed to find patient %d: %w", patientID, err)
		}
		patient.Approved = true
		if err := tx.Patients.UpdatePatient(patient); err != nil {
			return fmt.Errorf("failed to approve patient: %w", err)
		}
		return audit(tx, actorID, "patient_approve", fmt.Sprintf("Approved patient %s", patient.PatientNumber))
	})
}

// RejectStaff deletes the staff record and its login
func (s *WorkflowService) RejectStaff(staffID, actorID uint) (err error) {
	defer func() { s.finish("reject_staff", err, events.TopicAdmissions, staffID) }()

	return s.store.Transaction(func(tx *repository.Store) error {
		staff, err := tx.Staff.GetStaffByID(staffID)
		if err != nil {
			return fmt.Errorf("failed to find staff %d: %w", staffID, err)
		}
		if err := tx.Staff.DeleteStaff(staff.ID); err != nil {
			return fmt.Errorf("failed to delete staff: %w", err)
		}
		if err := removeLogin(tx, staff.PersonID, models.RoleStaff); err != nil {
			return err
		}
		return audit(tx, actorID, "staff_reject", fmt.Sprintf("Rejected staff ID %d", staff.ID))
	})
}

// RejectDoctor deletes the doctor record and its login, unassigns the doctor from
// patients and cancels the doctor's open appointments.
func (s *WorkflowService) RejectDoctor(doctorID, actorID uint) (err error) {
	var cancelled int64
	defer func() {
		s.finish("reject_doctor", err, events.TopicAdmissions, doctorID)
		if err == nil && cancelled > 0 {
			s.bus.Publish(events.TopicAppointments, "reject_doctor", doctorID)
		}
	}()

	return s.store.Transaction(func(tx *repository.Store) error {
		doctor, err := resolver{st: tx}.doctor(doctorID)
		if err != nil {
			return fmt.Errorf("failed to find doctor %d: %w", doctorID, err)
		}
		if err := tx.Patients.ClearDoctor(doctor.ID); err != nil {
			return fmt.Errorf("failed to unassign doctor: %w", err)
		}
		if cancelled, err = tx.Appointments.CancelOpenAppointmentsByDoctor(doctor.ID, cancelledNote); err != nil {
			return fmt.Errorf("failed to cancel appointments: %w", err)
		}
		if err := tx.Doctors.DeleteDoctor(doctor.ID); err != nil {
			return fmt.Errorf("failed to delete doctor: %w", err)
		}
		if err := removeLogin(tx, doctor.PersonID, models.RoleDoctor); err != nil {
			return err
		}
		return audit(tx, actorID, "doctor_reject", fmt.Sprintf("Rejected doctor ID %d", doctor.ID))
	})
}

// RejectNurse deletes the nurse record and its login and unassigns the nurse from patients
func (s *WorkflowService) RejectNurse(nurseID, actorID uint) (err error) {
	defer func() { s.finish("reject_nurse", err, events.TopicAdmissions, nurseID) }()

	return s.store.Transaction(func(tx *repository.Store) error {
		nurse, err := resolver{st: tx}.nurse(nurseID)
		if err != nil {
			return fmt.Errorf("failed to find nurse %d: %w", nurseID, err)
		}
		if err := tx.Patients.ClearNurse(nurse.ID); err != nil {
			return fmt.Errorf("failed to unassign nurse: %w", err)
		}
		if err := tx.Nurses.DeleteNurse(nurse.ID); err != nil {
			return fmt.Errorf("failed to delete nurse: %w", err)
		}
		if err := removeLogin(tx, nurse.PersonID, models.RoleNurse); err != nil {
			return err
		}
		return audit(tx, actorID, "nurse_reject", fmt.Sprintf("Rejected nurse ID %d", nurse.ID))
	})
}

// RejectPatient deletes the patient with its bills, insurance, appointments and records, then its login
func (s *WorkflowService) RejectPatient(patientID, actorID uint) (err error) {
	defer func() { s.finish("reject_patient", err, events.TopicAdmissions, patientID) }()

	return s.store.Transaction(func(tx *repository.Store) error {
		patient, err := resolver{st: tx}.patient(patientID)
		if err != nil {
			return fmt.Errorf("failed to find patient %d: %w", patientID, err)
		}
		if err := tx.Appointments.DeleteAppointmentsByPatient(patient.ID); err != nil {
			return fmt.Errorf("failed to delete appointments: %w", err)
		}
		if err := tx.MedicalRecords.DeleteMedicalRecordsByPatient(patient.ID); err != nil {
			return fmt.Errorf("failed to delete medical records: %w", err)
		}
		if err := tx.Insurance.DeleteInsuranceByPatient(patient.ID); err != nil {
			return fmt.Errorf("failed to delete insurance: %w", err)
		}
		if err := tx.Bills.DeleteBillsByPatient(patient.ID); err != nil {
			return fmt.Errorf("failed to delete bills: %w", err)
		}
		if err := tx.Patients.DeletePatient(patient.ID); err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		if err := removeLogin(tx, patient.PersonID, models.RolePatient); err != nil {
			return err
		}
		return audit(tx, actorID, "patient_reject", fmt.Sprintf("Rejected patient %s", patient.PatientNumber))
	})
}

// ToggleDoctorAvailability flips Available and NotAvailable. OnHold doctors are left untouched.
func (s *WorkflowService) ToggleDoctorAvailability(doctorID, actorID uint) (status models.Availability, err error) {
	defer func() { s.finish("toggle_doctor_availability", err, events.TopicAdmissions, doctorID) }()

	err = s.store.Transaction(func(tx *repository.Store) error {
		doctor, err := resolver{st: tx}.doctor(doctorID)
		if err != nil {
			return fmt.Errorf("failed to find doctor %d: %w", doctorID, err)
		}
		status = doctor.Status.Toggle()
		if status == doctor.Status {
			return nil
		}
		doctor.Status = status
		if err := tx.Doctors.UpdateDoctor(doctor); err != nil {
			return fmt.Errorf("failed to update doctor: %w", err)
		}
		return audit(tx, actorID, "doctor_availability", fmt.Sprintf("Doctor ID %d is now %s", doctor.ID, status))
	})
	return status, err
}

// ToggleNurseAvailability flips Available and NotAvailable. OnHold nurses are left untouched.
func (s *WorkflowService) ToggleNurseAvailability(nurseID, actorID uint) (status models.Availability, err error) {
	defer func() { s.finish("toggle_nurse_availability", err, events.TopicAdmissions, nurseID) }()

	err = s.store.Transaction(func(tx *repository.Store) error {
		nurse, err := resolver{st: tx}.nurse(nurseID)
		if err != nil {
			return fmt.Errorf("failed to find nurse %d: %w", nurseID, err)
		}
		status = nurse.Status.Toggle()
		if status == nurse.Status {
			return nil
		}
		nurse.Status = status
		if err := tx.Nurses.UpdateNurse(nurse); err != nil {
			return fmt.Errorf("failed to update nurse: %w", err)
		}
		return audit(tx, actorID, "nurse_availability", fmt.Sprintf("Nurse ID %d is now %s", nurse.ID, status))
	})
	return status, err
}

// removeLogin deletes the person's login for role, then the person itself once nothing references it
func removeLogin(tx *repository.Store, personID uint, role models.Role) error {
	if err := tx.Users.DeleteUsersByPersonAndRole(personID, role); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	linked, err := tx.Persons.HasLinks(personID)
	if err != nil {
		return fmt.Errorf("failed to check person links: %w", err)
	}
	if linked {
		return nil
	}
	if err := tx.Persons.DeletePerson(personID); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}
