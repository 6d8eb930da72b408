package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type PersonRepository struct {
	db *gorm.DB
}

func NewPersonRepo(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) CreatePerson(person *models.Person) error {
	return r.db.Create(person).Error
}

func (r *PersonRepository) GetPersonByID(id uint) (*models.Person, error) {
	var person models.Person
	if err := r.db.Where("id = ?", id).First(&person).Error; err != nil {
		return nil, notFound(err)
	}
	return &person, nil
}

// GetPersonsByIDs loads persons keyed by ID
func (r *PersonRepository) GetPersonsByIDs(ids []uint) (map[uint]models.Person, error) {
	persons := make(map[uint]models.Person, len(ids))
	if len(ids) == 0 {
		return persons, nil
	}
	var rows []models.Person
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		persons[p.ID] = p
	}
	return persons, nil
}

func (r *PersonRepository) DeletePerson(id uint) error {
	return r.db.Delete(&models.Person{}, id).Error
}

// countByPerson counts rows of model that reference personID
func countByPerson(db *gorm.DB, model interface{}, personID uint) (int64, error) {
	var count int64
	err := db.Model(model).Where("person_id = ?", personID).Count(&count).Error
	return count, err
}

// HasLinks reports whether any login account or role record still references the person
func (r *PersonRepository) HasLinks(personID uint) (bool, error) {
	for _, model := range []interface{}{&models.User{}, &models.Doctor{}, &models.Nurse{}, &models.Staff{}, &models.Patient{}} {
		count, err := countByPerson(r.db, model, personID)
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
