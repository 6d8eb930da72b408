package service

import (
	"errors"
	"fmt"
	"strings"

	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
	"hospital-workflow-backend/pkg/utils"
)

// AdminRequest provisions the first administrator
type AdminRequest struct {
	Person   PersonInput `json:"person"`
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required"`
}

type DoctorAccountRequest struct {
	Person         PersonInput `json:"person"`
	LicenseNumber  string      `json:"license_number"`
	Specialization string      `json:"specialization"`
	DepartmentID   *uint       `json:"department_id"`
}

type NurseAccountRequest struct {
	Person        PersonInput `json:"person"`
	LicenseNumber string      `json:"license_number"`
	Ward          string      `json:"ward"`
	DepartmentID  *uint       `json:"department_id"`
}

type StaffAccountRequest struct {
	Person       PersonInput `json:"person"`
	Position     string      `json:"position"`
	DepartmentID *uint       `json:"department_id"`
}

type InsuranceInput struct {
	Provider     string `json:"provider" binding:"required"`
	PolicyNumber string `json:"policy_number" binding:"required"`
}

func (in InsuranceInput) validate() error {
	if strings.TrimSpace(in.Provider) == "" || strings.TrimSpace(in.PolicyNumber) == "" {
		return fmt.Errorf("%w: insurance provider and policy number are required", ErrValidation)
	}
	return nil
}

// PatientAccountRequest registers a patient. DoctorID and NurseID may hold either the
// role id or the linked user id. Room is a display string such as "Room 101 - ICU".
type PatientAccountRequest struct {
	Person            PersonInput      `json:"person"`
	DoctorID          *uint            `json:"doctor_id"`
	NurseID           *uint            `json:"nurse_id"`
	Room              string           `json:"room"`
	Insurance         []InsuranceInput `json:"insurance"`
	Approve           bool             `json:"approve"`
	CurrentlyAdmitted bool             `json:"currently_admitted"`
}

// ProvisionFirstAdmin creates the first admin account. It fails once any admin exists.
func (s *WorkflowService) ProvisionFirstAdmin(req AdminRequest) (view *AccountView, err error) {
	var userID uint
	defer func() { s.finish("provision_first_admin", err, events.TopicAdmissions, userID) }()

	if err := req.Person.validate(); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	err = s.store.Transaction(func(tx *repository.Store) error {
		admins, err := tx.Users.CountByRole(models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins > 0 {
			return fmt.Errorf("%w: an admin account already exists", ErrConflict)
		}
		if err := ensureUsernameFree(tx, username); err != nil {
			return err
		}

		person := req.Person.toModel()
		if err := tx.Persons.CreatePerson(person); err != nil {
			return fmt.Errorf("failed to create person: %w", err)
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user := &models.User{Username: username, PasswordHash: hash, Role: models.RoleAdmin, PersonID: person.ID}
		if err := tx.Users.CreateUser(user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		userID = user.ID

		account := MapUserAccount(*user, *person, newAccountLookup())
		view = &account
		return audit(tx, user.ID, "admin_provision", fmt.Sprintf("Provisioned first admin %s", username))
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CreateDoctorAccount registers an unapproved, OnHold doctor with a generated login
func (s *WorkflowService) CreateDoctorAccount(req DoctorAccountRequest, actorID uint) (created *CreatedAccount, err error) {
	var doctorID uint
	defer func() { s.finish("create_doctor_account", err, events.TopicAdmissions, doctorID) }()

	if err := req.Person.validate(); err != nil {
		return nil, err
	}
	err = s.store.Transaction(func(tx *repository.Store) error {
		if err := checkDepartment(tx, req.DepartmentID); err != nil {
			return err
		}
		person := req.Person.toModel()
		if err := tx.Persons.CreatePerson(person); err != nil {
			return fmt.Errorf("failed to create person: %w", err)
		}
		doctor := &models.Doctor{
			PersonID:       person.ID,
			LicenseNumber:  req.LicenseNumber,
			Specialization: req.Specialization,
			DepartmentID:   req.DepartmentID,
			Status:         models.AvailabilityOnHold,
		}
		if err := tx.Doctors.CreateDoctor(doctor); err != nil {
			return fmt.Errorf("failed to create doctor: %w", err)
		}
		doctorID = doctor.ID

		created, err = s.createLogin(tx, person, models.RoleDoctor)
		if err != nil {
			return err
		}
		return audit(tx, actorID, "doctor_create", fmt.Sprintf("Created doctor %s (ID: %d)", created.Account.Username, doctor.ID))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateNurseAccount registers an unapproved, OnHold nurse with a generated login
func (s *WorkflowService) CreateNurseAccount(req NurseAccountRequest, actorID uint) (created *CreatedAccount, err error) {
	var nurseID uint
	defer func() { s.finish("create_nurse_account", err, events.TopicAdmissions, nurseID) }()

	if err := req.Person.validate(); err != nil {
		return nil, err
	}
	err = s.store.Transaction(func(tx *repository.Store) error {
		if err := checkDepartment(tx, req.DepartmentID); err != nil {
			return err
		}
		person := req.Person.toModel()
		if err := tx.Persons.CreatePerson(person); err != nil {
			return fmt.Errorf("failed to create person: %w", err)
		}
		nurse := &models.Nurse{
			PersonID:      person.ID,
			LicenseNumber: req.LicenseNumber,
			Ward:          req.Ward,
			DepartmentID:  req.DepartmentID,
			Status:        models.AvailabilityOnHold,
		}
		if err := tx.Nurses.CreateNurse(nurse); err != nil {
			return fmt.Errorf("failed to create nurse: %w", err)
		}
		nurseID = nurse.ID

		created, err = s.createLogin(tx, person, models.RoleNurse)
		if err != nil {
			return err
		}
		return audit(tx, actorID, "nurse_create", fmt.Sprintf("Created nurse %s (ID: %d)", created.Account.Username, nurse.ID))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateStaffAccount registers an unapproved staff member with a generated login
func (s *WorkflowService) CreateStaffAccount(req StaffAccountRequest, actorID uint) (created *CreatedAccount, err error) {
	var staffID uint
	defer func() { s.finish("create_staff_account", err, events.TopicAdmissions, staffID) }()

	if err := req.Person.validate(); err != nil {
		return nil, err
	}
	err = s.store.Transaction(func(tx *repository.Store) error {
		if err := checkDepartment(tx, req.DepartmentID); err != nil {
			return err
		}
		person := req.Person.toModel()
		if err := tx.Persons.CreatePerson(person); err != nil {
			return fmt.Errorf("failed to create person: %w", err)
		}
		staff := &models.Staff{PersonID: person.ID, Position: req.Position, DepartmentID: req.DepartmentID}
		if err := tx.Staff.CreateStaff(staff); err != nil {
			return fmt.Errorf("failed to create staff: %w", err)
		}
		staffID = staff.ID

		created, err = s.createLogin(tx, person, models.RoleStaff)
		if err != nil {
			return err
		}
		return audit(tx, actorID, "staff_create", fmt.Sprintf("Created staff %s (ID: %d)", created.Account.Username, staff.ID))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreatePatientAccount registers a patient with doctor, nurse and room resolved,
// an empty admission bill and a generated login.
func (s *WorkflowService) CreatePatientAccount(req PatientAccountRequest, actorID uint) (created *CreatedAccount, err error) {
	var patientID uint
	defer func() { s.finish("create_patient_account", err, events.TopicAdmissions, patientID) }()

	if err := req.Person.validate(); err != nil {
		return nil, err
	}
	for _, ins := range req.Insurance {
		if err := ins.validate(); err != nil {
			return nil, err
		}
	}

	err = s.store.Transaction(func(tx *repository.Store) error {
		r := resolver{st: tx}
		doctor, err := r.doctorOrDefault(req.DoctorID)
		if err != nil {
			return err
		}
		nurse, err := r.nurseOrFirstAvailable(req.NurseID)
		if err != nil {
			return err
		}
		room, err := r.room(req.Room, req.CurrentlyAdmitted)
		if err != nil {
			return err
		}

		person := req.Person.toModel()
		if err := tx.Persons.CreatePerson(person); err != nil {
			return fmt.Errorf("failed to create person: %w", err)
		}

		numbers, err := tx.Patients.PatientNumbers()
		if err != nil {
			return fmt.Errorf("failed to read patient numbers: %w", err)
		}
		now := s.now()
		patient := &models.Patient{
			PersonID:      person.ID,
			PatientNumber: nextSequenceNumber(patientNumberPrefix, numbers),
			DateAdmitted:  now,
			DoctorID:      &doctor.ID,
			NurseID:       &nurse.ID,
			RoomID:        &room.ID,
			Approved:      req.Approve,
			Active:        req.CurrentlyAdmitted,
		}
		if !req.CurrentlyAdmitted {
			patient.DateDischarged = &now
		}
		if err := tx.Patients.CreatePatient(patient); err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}
		patientID = patient.ID

		bill, err := s.createBill(tx, &models.Bill{PatientID: patient.ID, Description: "Admission"})
		if err != nil {
			return err
		}
		patient.CurrentBillID = &bill.ID
		if err := tx.Patients.UpdatePatient(patient); err != nil {
			return fmt.Errorf("failed to link admission bill: %w", err)
		}

		for _, ins := range req.Insurance {
			policy := &models.Insurance{
				PatientID:    patient.ID,
				Provider:     strings.TrimSpace(ins.Provider),
				PolicyNumber: strings.TrimSpace(ins.PolicyNumber),
			}
			if err := tx.Insurance.CreateInsurance(policy); err != nil {
				return fmt.Errorf("failed to create insurance: %w", err)
			}
		}

		created, err = s.createLogin(tx, person, models.RolePatient)
		if err != nil {
			return err
		}
		details := fmt.Sprintf("Registered patient %s in %s with doctor ID %d", patient.PatientNumber, FormatRoom(*room), doctor.ID)
		return audit(tx, actorID, "patient_create", details)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AdmitNewPatient registers an approved patient who is admitted immediately
func (s *WorkflowService) AdmitNewPatient(req PatientAccountRequest, actorID uint) (*CreatedAccount, error) {
	req.Approve = true
	req.CurrentlyAdmitted = true
	return s.CreatePatientAccount(req, actorID)
}

// AddInsurance attaches a policy to a patient
func (s *WorkflowService) AddInsurance(patientID uint, in InsuranceInput, actorID uint) (policy *models.Insurance, err error) {
	defer func() { s.finish("add_insurance", err, events.TopicAdmissions, patientID) }()

	if err := in.validate(); err != nil {
		return nil, err
	}
	err = s.store.Transaction(func(tx *repository.Store) error {
		patient, err := resolver{st: tx}.patient(patientID)
		if err != nil {
			return fmt.Errorf("failed to find patient %d: %w", patientID, err)
		}
		policy = &models.Insurance{
			PatientID:    patient.ID,
			Provider:     strings.TrimSpace(in.Provider),
			PolicyNumber: strings.TrimSpace(in.PolicyNumber),
		}
		if err := tx.Insurance.CreateInsurance(policy); err != nil {
			return fmt.Errorf("failed to create insurance: %w", err)
		}
		return audit(tx, actorID, "insurance_add", fmt.Sprintf("Added %s policy to patient %s", policy.Provider, patient.PatientNumber))
	})
	if err != nil {
		return nil, err
	}
	return policy, nil
}

// createLogin generates a unique username and temporary password for person
func (s *WorkflowService) createLogin(tx *repository.Store, person *models.Person, role models.Role) (*CreatedAccount, error) {
	base := usernameBase(person.GivenName, person.LastName)
	taken, err := tx.Users.UsernamesWithPrefix(base)
	if err != nil {
		return nil, fmt.Errorf("failed to read usernames: %w", err)
	}
	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     uniqueUsername(base, taken),
		PasswordHash: hash,
		Role:         role,
		PersonID:     person.ID,
	}
	if err := tx.Users.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	lookup, err := personLookup(tx, person.ID)
	if err != nil {
		return nil, err
	}
	return &CreatedAccount{
		Account:           MapUserAccount(*user, *person, lookup),
		TemporaryPassword: password,
	}, nil
}

// createBill assigns the next bill number and stores b as Unpaid unless a status is set
func (s *WorkflowService) createBill(tx *repository.Store, b *models.Bill) (*models.Bill, error) {
	numbers, err := tx.Bills.BillNumbers()
	if err != nil {
		return nil, fmt.Errorf("failed to read bill numbers: %w", err)
	}
	b.BillNumber = nextSequenceNumber(billNumberPrefix, numbers)
	if b.Status == "" {
		b.Status = models.BillStatusUnpaid
	}
	if err := tx.Bills.CreateBill(b); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	return b, nil
}

func ensureUsernameFree(tx *repository.Store, username string) error {
	_, err := tx.Users.FindUserByUsername(username)
	switch {
	case err == nil:
		return fmt.Errorf("%w: username %q is already in use", ErrConflict, username)
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check username: %w", err)
	}
}

func checkDepartment(tx *repository.Store, departmentID *uint) error {
	if departmentID == nil {
		return nil
	}
	_, err := tx.Departments.GetDepartmentByID(*departmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: department %d does not exist", ErrValidation, *departmentID)
	}
	return err
}
