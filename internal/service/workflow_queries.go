package service

import (
	"errors"
	"fmt"

	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
)

// GetAccountByUsername returns nil, nil for an unknown username
func (s *WorkflowService) GetAccountByUsername(username string) (*AccountView, error) {
	user, err := s.store.Users.FindUserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	person, err := s.store.Persons.GetPersonByID(user.PersonID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load person: %w", err)
	}
	lookup, err := personLookup(s.store, person.ID)
	if err != nil {
		return nil, err
	}
	view := MapUserAccount(*user, *person, lookup)
	return &view, nil
}

// GetAllAccounts maps every login account
func (s *WorkflowService) GetAllAccounts() ([]AccountView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(snap.users))
	for _, u := range snap.users {
		ids = append(ids, u.PersonID)
	}
	persons, err := s.store.Persons.GetPersonsByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load persons: %w", err)
	}

	views := make([]AccountView, 0, len(snap.users))
	for _, u := range snap.users {
		person, ok := persons[u.PersonID]
		if !ok {
			person = models.Person{ID: u.PersonID}
		}
		views = append(views, MapUserAccount(u, person, snap.lookup))
	}
	return views, nil
}

func (s *WorkflowService) GetApprovedDoctors() ([]AccountView, error) {
	return s.roleAccounts(models.RoleDoctor, AccountView.Approved)
}

func (s *WorkflowService) GetPendingDoctors() ([]AccountView, error) {
	return s.roleAccounts(models.RoleDoctor, pending)
}

func (s *WorkflowService) GetApprovedNurses() ([]AccountView, error) {
	return s.roleAccounts(models.RoleNurse, AccountView.Approved)
}

func (s *WorkflowService) GetPendingNurses() ([]AccountView, error) {
	return s.roleAccounts(models.RoleNurse, pending)
}

func (s *WorkflowService) GetApprovedStaff() ([]AccountView, error) {
	return s.roleAccounts(models.RoleStaff, AccountView.Approved)
}

func (s *WorkflowService) GetPendingStaff() ([]AccountView, error) {
	return s.roleAccounts(models.RoleStaff, pending)
}

func (s *WorkflowService) GetApprovedPatients() ([]AccountView, error) {
	return s.roleAccounts(models.RolePatient, AccountView.Approved)
}

func (s *WorkflowService) GetPendingPatients() ([]AccountView, error) {
	return s.roleAccounts(models.RolePatient, pending)
}

// GetCurrentAdmissions lists approved patients who have not been discharged
func (s *WorkflowService) GetCurrentAdmissions() ([]AccountView, error) {
	return s.roleAccounts(models.RolePatient, func(v AccountView) bool {
		p, ok := v.Profile.(PatientProfile)
		return ok && p.Approved && p.CurrentlyAdmitted
	})
}

// GetDeactivatedPatients lists discharged patients
func (s *WorkflowService) GetDeactivatedPatients() ([]AccountView, error) {
	return s.roleAccounts(models.RolePatient, func(v AccountView) bool {
		p, ok := v.Profile.(PatientProfile)
		return ok && !p.CurrentlyAdmitted
	})
}

func pending(v AccountView) bool {
	return !v.Approved()
}

type personRole struct {
	personID uint
	role     models.Role
}

// accountSnapshot is every row the list projections read, loaded once per call
type accountSnapshot struct {
	lookup   AccountLookup
	doctors  []models.Doctor
	nurses   []models.Nurse
	staff    []models.Staff
	patients []models.Patient
	users    []models.User
	logins   map[personRole]models.User
}

func (s *WorkflowService) snapshot() (*accountSnapshot, error) {
	snap := &accountSnapshot{lookup: newAccountLookup(), logins: map[personRole]models.User{}}
	var err error

	if snap.doctors, err = s.store.Doctors.GetAllDoctors(); err != nil {
		return nil, fmt.Errorf("failed to load doctors: %w", err)
	}
	if snap.nurses, err = s.store.Nurses.GetAllNurses(); err != nil {
		return nil, fmt.Errorf("failed to load nurses: %w", err)
	}
	if snap.staff, err = s.store.Staff.GetAllStaff(); err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}
	if snap.patients, err = s.store.Patients.GetAllPatients(); err != nil {
		return nil, fmt.Errorf("failed to load patients: %w", err)
	}
	if snap.users, err = s.store.Users.GetAllUsers(); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	bills, err := s.store.Bills.GetAllBills()
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	policies, err := s.store.Insurance.GetAllInsurance()
	if err != nil {
		return nil, fmt.Errorf("failed to load insurance: %w", err)
	}
	rooms, err := s.store.Rooms.GetAllRooms()
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	for _, d := range snap.doctors {
		snap.lookup.Doctors[d.PersonID] = d
	}
	for _, n := range snap.nurses {
		snap.lookup.Nurses[n.PersonID] = n
	}
	for _, st := range snap.staff {
		snap.lookup.Staff[st.PersonID] = st
	}
	for _, p := range snap.patients {
		snap.lookup.Patients[p.PersonID] = p
	}
	for _, b := range bills {
		snap.lookup.BillsByPatient[b.PatientID] = append(snap.lookup.BillsByPatient[b.PatientID], b)
	}
	for _, ins := range policies {
		snap.lookup.InsuranceByPatient[ins.PatientID] = append(snap.lookup.InsuranceByPatient[ins.PatientID], ins)
	}
	for _, r := range rooms {
		snap.lookup.Rooms[r.ID] = r
	}
	for _, u := range snap.users {
		key := personRole{u.PersonID, u.Role}
		if _, seen := snap.logins[key]; !seen {
			snap.logins[key] = u
		}
	}
	return snap, nil
}

// roleAccounts maps every role record of one kind, with or without a login, and keeps those matching keep
func (s *WorkflowService) roleAccounts(role models.Role, keep func(AccountView) bool) ([]AccountView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	var people []*models.Person
	var personIDs []uint
	switch role {
	case models.RoleDoctor:
		for _, d := range snap.doctors {
			people, personIDs = append(people, d.Person), append(personIDs, d.PersonID)
		}
	case models.RoleNurse:
		for _, n := range snap.nurses {
			people, personIDs = append(people, n.Person), append(personIDs, n.PersonID)
		}
	case models.RoleStaff:
		for _, st := range snap.staff {
			people, personIDs = append(people, st.Person), append(personIDs, st.PersonID)
		}
	case models.RolePatient:
		for _, p := range snap.patients {
			people, personIDs = append(people, p.Person), append(personIDs, p.PersonID)
		}
	}

	views := []AccountView{}
	for i, personID := range personIDs {
		person := models.Person{ID: personID}
		if people[i] != nil {
			person = *people[i]
		}
		user, ok := snap.logins[personRole{personID, role}]
		if !ok {
			user = models.User{Role: role, PersonID: personID}
		}
		if view := MapUserAccount(user, person, snap.lookup); keep(view) {
			views = append(views, view)
		}
	}
	return views, nil
}

// personLookup loads the role records, bills, insurance and room of one person
func personLookup(st *repository.Store, personID uint) (AccountLookup, error) {
	lookup := newAccountLookup()

	if d, err := st.Doctors.GetDoctorByPersonID(personID); err == nil {
		lookup.Doctors[personID] = *d
	} else if !errors.Is(err, repository.ErrNotFound) {
		return lookup, fmt.Errorf("failed to load doctor: %w", err)
	}
	if n, err := st.Nurses.GetNurseByPersonID(personID); err == nil {
		lookup.Nurses[personID] = *n
	} else if !errors.Is(err, repository.ErrNotFound) {
		return lookup, fmt.Errorf("failed to load nurse: %w", err)
	}
	if staff, err := st.Staff.GetStaffByPersonID(personID); err == nil {
		lookup.Staff[personID] = *staff
	} else if !errors.Is(err, repository.ErrNotFound) {
		return lookup, fmt.Errorf("failed to load staff: %w", err)
	}

	p, err := st.Patients.GetPatientByPersonID(personID)
	if errors.Is(err, repository.ErrNotFound) {
		return lookup, nil
	}
	if err != nil {
		return lookup, fmt.Errorf("failed to load patient: %w", err)
	}
	lookup.Patients[personID] = *p

	bills, err := st.Bills.GetBillsByPatient(p.ID)
	if err != nil {
		return lookup, fmt.Errorf("failed to load bills: %w", err)
	}
	lookup.BillsByPatient[p.ID] = bills

	policies, err := st.Insurance.GetInsuranceByPatient(p.ID)
	if err != nil {
		return lookup, fmt.Errorf("failed to load insurance: %w", err)
	}
	lookup.InsuranceByPatient[p.ID] = policies

	if p.RoomID != nil {
		room, err := st.Rooms.GetRoomByID(*p.RoomID)
		if err == nil {
			lookup.Rooms[room.ID] = *room
		} else if !errors.Is(err, repository.ErrNotFound) {
			return lookup, fmt.Errorf("failed to load room: %w", err)
		}
	}
	return lookup, nil
}

const maxActivityLimit = 500

// RecentActivity returns the newest audit rows. A limit outside 1..500 falls back to 50.
func (s *WorkflowService) RecentActivity(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > maxActivityLimit {
		limit = 50
	}
	logs, err := s.store.Audit.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
