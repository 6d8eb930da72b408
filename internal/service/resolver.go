package service

import (
	"errors"
	"fmt"

	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
)

// resolver finds role records from ids that may be either the role id or the linked user id.
// All lookups go through the store of the current transaction.
type resolver struct {
	st *repository.Store
}

// personOfUser follows User -> Person
func (r resolver) personOfUser(userID uint) (uint, error) {
	user, err := r.st.Users.FindUserByID(userID)
	if err != nil {
		return 0, err
	}
	return user.PersonID, nil
}

// doctor tries the doctor table, then User -> Person -> Doctor
func (r resolver) doctor(id uint) (*models.Doctor, error) {
	if id == 0 {
		return nil, repository.ErrNotFound
	}
	d, err := r.st.Doctors.GetDoctorByID(id)
	if !errors.Is(err, repository.ErrNotFound) {
		return d, err
	}
	personID, err := r.personOfUser(id)
	if err != nil {
		return nil, err
	}
	return r.st.Doctors.GetDoctorByPersonID(personID)
}

// nurse tries the nurse table, then User -> Person -> Nurse
func (r resolver) nurse(id uint) (*models.Nurse, error) {
	if id == 0 {
		return nil, repository.ErrNotFound
	}
	n, err := r.st.Nurses.GetNurseByID(id)
	if !errors.Is(err, repository.ErrNotFound) {
		return n, err
	}
	personID, err := r.personOfUser(id)
	if err != nil {
		return nil, err
	}
	return r.st.Nurses.GetNurseByPersonID(personID)
}

// patient tries the patient table, then User -> Person -> Patient
func (r resolver) patient(id uint) (*models.Patient, error) {
	if id == 0 {
		return nil, repository.ErrNotFound
	}
	p, err := r.st.Patients.GetPatientByID(id)
	if !errors.Is(err, repository.ErrNotFound) {
		return p, err
	}
	personID, err := r.personOfUser(id)
	if err != nil {
		return nil, err
	}
	return r.st.Patients.GetPatientByPersonID(personID)
}

// doctorOrDefault resolves a patient's attending doctor, falling back to the lowest-id Available doctor
func (r resolver) doctorOrDefault(id *uint) (*models.Doctor, error) {
	if id != nil {
		d, err := r.doctor(*id)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	d, err := r.st.Doctors.GetFirstAvailableDoctor()
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: no available doctor", ErrNotConfigured)
	}
	return d, err
}

// nurseOrFirstAvailable resolves the assigned nurse, else the first Available nurse, else the first nurse
func (r resolver) nurseOrFirstAvailable(id *uint) (*models.Nurse, error) {
	if id != nil {
		n, err := r.nurse(*id)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	n, err := r.st.Nurses.GetFirstAvailableNurse()
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	n, err = r.st.Nurses.GetFirstNurse()
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: no nurses exist", ErrNotConfigured)
	}
	return n, err
}

// appointmentPatient resolves a patient, falling back to the lowest-id patient
func (r resolver) appointmentPatient(id uint) (*models.Patient, error) {
	p, err := r.patient(id)
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return p, err
	}
	p, err = r.st.Patients.GetFirstPatient()
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: no patients exist", ErrNotConfigured)
	}
	return p, err
}

// appointmentDoctor resolves a doctor, falling back to the lowest-id doctor
func (r resolver) appointmentDoctor(id uint) (*models.Doctor, error) {
	d, err := r.doctor(id)
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return d, err
	}
	d, err = r.st.Doctors.GetFirstDoctor()
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: no doctors exist", ErrNotConfigured)
	}
	return d, err
}

// room resolves the room named in a display string ("Room 101 - ICU", "101").
// An unknown or unparsable room falls back to the lowest-id room, and when
// needSpace is set only rooms below capacity qualify.
func (r resolver) room(display string, needSpace bool) (*models.Room, error) {
	if number, ok := parseRoomNumber(display); ok {
		room, err := r.st.Rooms.GetRoomByNumber(number)
		switch {
		case err == nil:
			if needSpace {
				full, err := r.roomIsFull(room)
				if err != nil {
					return nil, err
				}
				if full {
					return nil, fmt.Errorf("%w: %s is at capacity", ErrConflict, FormatRoom(*room))
				}
			}
			return room, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}
	return r.fallbackRoom(needSpace)
}

func (r resolver) fallbackRoom(needSpace bool) (*models.Room, error) {
	rooms, err := r.st.Rooms.GetAllRooms()
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("%w: no rooms exist", ErrNotConfigured)
	}
	if !needSpace {
		return &rooms[0], nil
	}
	for i := range rooms {
		full, err := r.roomIsFull(&rooms[i])
		if err != nil {
			return nil, err
		}
		if !full {
			return &rooms[i], nil
		}
	}
	return nil, fmt.Errorf("%w: every room is at capacity", ErrConflict)
}

func (r resolver) roomIsFull(room *models.Room) (bool, error) {
	occupants, err := r.st.Patients.CountAdmittedInRoom(room.ID)
	if err != nil {
		return false, err
	}
	return occupants >= int64(room.Capacity), nil
}
