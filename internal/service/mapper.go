package service

import (
	"fmt"
	"strings"

	"hospital-workflow-backend/internal/models"
)

// AccountLookup holds the rows MapUserAccount reads. Role records are keyed by PersonID,
// bills and insurance by PatientID, rooms by ID.
type AccountLookup struct {
	Doctors            map[uint]models.Doctor
	Nurses             map[uint]models.Nurse
	Staff              map[uint]models.Staff
	Patients           map[uint]models.Patient
	BillsByPatient     map[uint][]models.Bill
	InsuranceByPatient map[uint][]models.Insurance
	Rooms              map[uint]models.Room
}

func newAccountLookup() AccountLookup {
	return AccountLookup{
		Doctors:            map[uint]models.Doctor{},
		Nurses:             map[uint]models.Nurse{},
		Staff:              map[uint]models.Staff{},
		Patients:           map[uint]models.Patient{},
		BillsByPatient:     map[uint][]models.Bill{},
		InsuranceByPatient: map[uint][]models.Insurance{},
		Rooms:              map[uint]models.Room{},
	}
}

// MapUserAccount builds the denormalized view of one account from normalized rows.
// The role record is chosen by the user's role tag; a missing role record leaves Profile nil and the account inactive.
func MapUserAccount(user models.User, person models.Person, lookup AccountLookup) AccountView {
	view := AccountView{
		UserID:           user.ID,
		Username:         user.Username,
		Role:             user.Role,
		PersonID:         person.ID,
		DisplayName:      FormatDisplayName(person),
		GivenName:        person.GivenName,
		MiddleName:       person.MiddleName,
		LastName:         person.LastName,
		Suffix:           person.Suffix,
		BirthDate:        person.BirthDate,
		Sex:              person.Sex,
		ContactNumber:    person.ContactNumber,
		Address:          person.Address,
		EmergencyContact: person.EmergencyContact,
		EmergencyNumber:  person.EmergencyNumber,
		Nationality:      person.Nationality,
	}

	switch user.Role {
	case models.RoleAdmin:
		view.Profile = AdminProfile{}
		view.IsActive = true

	case models.RoleDoctor:
		if d, ok := lookup.Doctors[person.ID]; ok {
			view.Profile = DoctorProfile{
				DoctorID:       d.ID,
				LicenseNumber:  d.LicenseNumber,
				Specialization: d.Specialization,
				DepartmentID:   d.DepartmentID,
				Approved:       d.Approved,
				Status:         d.Status,
			}
			view.IsActive = d.Status == models.AvailabilityAvailable
		}

	case models.RoleNurse:
		if n, ok := lookup.Nurses[person.ID]; ok {
			view.Profile = NurseProfile{
				NurseID:       n.ID,
				LicenseNumber: n.LicenseNumber,
				Ward:          n.Ward,
				DepartmentID:  n.DepartmentID,
				Approved:      n.Approved,
				Status:        n.Status,
			}
			view.IsActive = n.Approved
		}

	case models.RoleStaff:
		if s, ok := lookup.Staff[person.ID]; ok {
			view.Profile = StaffProfile{
				StaffID:      s.ID,
				Position:     s.Position,
				DepartmentID: s.DepartmentID,
				Approved:     s.Approved,
			}
			view.IsActive = s.Approved
		}

	case models.RolePatient:
		if p, ok := lookup.Patients[person.ID]; ok {
			view.Profile = PatientProfile{
				PatientID:         p.ID,
				PatientNumber:     p.PatientNumber,
				DateAdmitted:      p.DateAdmitted,
				DateDischarged:    p.DateDischarged,
				CurrentlyAdmitted: p.IsCurrentlyAdmitted(),
				DoctorID:          p.DoctorID,
				NurseID:           p.NurseID,
				RoomID:            p.RoomID,
				CurrentBillID:     p.CurrentBillID,
				Approved:          p.Approved,
				Active:            p.Active,
			}
			view.IsActive = p.Approved
			view.HasUnpaidBills = hasUnpaidBills(lookup.BillsByPatient[p.ID])
			view.InsuranceProvider = FormatInsurance(lookup.InsuranceByPatient[p.ID])
			if p.RoomID != nil {
				if room, ok := lookup.Rooms[*p.RoomID]; ok {
					view.RoomAssignment = FormatRoom(room)
				}
			}
		}
	}

	return view
}

func hasUnpaidBills(bills []models.Bill) bool {
	for _, b := range bills {
		if !b.IsPaid() {
			return true
		}
	}
	return false
}

// FormatDisplayName renders "Given [Middle] Last [Suffix]"
func FormatDisplayName(p models.Person) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.GivenName, p.MiddleName, p.LastName, p.Suffix} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// FormatInsurance renders policies as "Provider (PolicyNumber)" joined by ", "
func FormatInsurance(policies []models.Insurance) string {
	formatted := make([]string, 0, len(policies))
	for _, ins := range policies {
		formatted = append(formatted, fmt.Sprintf("%s (%s)", ins.Provider, ins.PolicyNumber))
	}
	return strings.Join(formatted, ", ")
}

// FormatRoom renders "Room {number} - {type}", or the bare type for room number 0
func FormatRoom(room models.Room) string {
	if room.Number == 0 {
		return room.Type
	}
	return fmt.Sprintf("Room %d - %s", room.Number, room.Type)
}
