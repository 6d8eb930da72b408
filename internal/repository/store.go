package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that match no row
var ErrNotFound = errors.New("record not found")

// Store bundles every repository over one connection or transaction
type Store struct {
	db *gorm.DB

	Persons        *PersonRepository
	Users          *UserRepository
	Doctors        *DoctorRepository
	Nurses         *NurseRepository
	Staff          *StaffRepository
	Patients       *PatientRepository
	Rooms          *RoomRepository
	Departments    *DepartmentRepository
	Bills          *BillRepository
	Appointments   *AppointmentRepository
	MedicalRecords *MedicalRecordRepository
	Insurance      *InsuranceRepository
	Audit          *AuditRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Persons:        NewPersonRepo(db),
		Users:          NewUserRepo(db),
		Doctors:        NewDoctorRepo(db),
		Nurses:         NewNurseRepo(db),
		Staff:          NewStaffRepo(db),
		Patients:       NewPatientRepo(db),
		Rooms:          NewRoomRepo(db),
		Departments:    NewDepartmentRepo(db),
		Bills:          NewBillRepo(db),
		Appointments:   NewAppointmentRepo(db),
		MedicalRecords: NewMedicalRecordRepo(db),
		Insurance:      NewInsuranceRepo(db),
		Audit:          NewAuditRepo(db),
	}
}

// Transaction runs fn as one unit of work. Returning an error rolls everything back.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// notFound converts gorm's sentinel into ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
