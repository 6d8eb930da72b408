package repository

import (
	"time"

	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type BillRepository struct {
	db *gorm.DB
}

func NewBillRepo(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) CreateBill(bill *models.Bill) error {
	return r.db.Create(bill).Error
}

func (r *BillRepository) GetBillByID(id uint) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.Where("id = ?", id).First(&bill).Error; err != nil {
		return nil, notFound(err)
	}
	return &bill, nil
}

// GetBillsByPatient lists a patient's bills oldest first
func (r *BillRepository) GetBillsByPatient(patientID uint) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.Where("patient_id = ?", patientID).Order("id ASC").Find(&bills).Error
	return bills, err
}

func (r *BillRepository) GetAllBills() ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.Order("id ASC").Find(&bills).Error
	return bills, err
}

// BillNumbers returns every issued bill number
func (r *BillRepository) BillNumbers() ([]string, error) {
	var numbers []string
	err := r.db.Model(&models.Bill{}).Pluck("bill_number", &numbers).Error
	return numbers, err
}

func (r *BillRepository) UpdateBill(bill *models.Bill) error {
	return r.db.Save(bill).Error
}

// SettleUnpaidBills marks every unpaid bill of a patient as paid and returns how many changed
func (r *BillRepository) SettleUnpaidBills(patientID uint, method string, paidAt time.Time) (int64, error) {
	result := r.db.Model(&models.Bill{}).
		Where("patient_id = ? AND status <> ?", patientID, models.BillStatusPaid).
		Updates(map[string]interface{}{
			"status":         models.BillStatusPaid,
			"payment_method": method,
			"paid_at":        paidAt,
		})
	return result.RowsAffected, result.Error
}

func (r *BillRepository) DeleteBillsByPatient(patientID uint) error {
	return r.db.Where("patient_id = ?", patientID).Delete(&models.Bill{}).Error
}
