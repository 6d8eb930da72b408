package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// GetAllDepartments retrieves all departments ordered by name
func (r *DepartmentRepository) GetAllDepartments() ([]models.Department, error) {
	var departments []models.Department
	err := r.db.Order("name ASC").Find(&departments).Error
	return departments, err
}

// GetDepartmentByID retrieves a department by ID
func (r *DepartmentRepository) GetDepartmentByID(id uint) (*models.Department, error) {
	var department models.Department
	if err := r.db.Where("id = ?", id).First(&department).Error; err != nil {
		return nil, notFound(err)
	}
	return &department, nil
}

// GetDepartmentByName retrieves a department by its unique name
func (r *DepartmentRepository) GetDepartmentByName(name string) (*models.Department, error) {
	var department models.Department
	if err := r.db.Where("name = ?", name).First(&department).Error; err != nil {
		return nil, notFound(err)
	}
	return &department, nil
}

// CreateDepartment creates a new department
func (r *DepartmentRepository) CreateDepartment(department *models.Department) error {
	return r.db.Create(department).Error
}
