package models

import "time"

// Person holds identity data shared by every role a human can have.
// Role records and login accounts point at it through PersonID.
type Person struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	GivenName        string     `gorm:"size:100;not null" json:"given_name"`
	MiddleName       string     `gorm:"size:100" json:"middle_name,omitempty"`
	LastName         string     `gorm:"size:100;not null" json:"last_name"`
	Suffix           string     `gorm:"size:20" json:"suffix,omitempty"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	Sex              string     `gorm:"size:10" json:"sex,omitempty"`
	ContactNumber    string     `gorm:"size:30" json:"contact_number,omitempty"`
	Address          string     `gorm:"type:text" json:"address,omitempty"`
	EmergencyContact string     `gorm:"size:150" json:"emergency_contact,omitempty"`
	EmergencyNumber  string     `gorm:"size:30" json:"emergency_number,omitempty"`
	Nationality      string     `gorm:"size:60" json:"nationality,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Person model
func (Person) TableName() string {
	return "persons"
}
