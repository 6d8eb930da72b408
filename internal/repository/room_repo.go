package repository

import (
	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetAllRooms retrieves all rooms by ascending ID
func (r *RoomRepository) GetAllRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Order("id ASC").Find(&rooms).Error
	return rooms, err
}

// GetRoomByID retrieves a room by ID
func (r *RoomRepository) GetRoomByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.Where("id = ?", id).First(&room).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

// GetRoomByNumber retrieves a room by its unique room number
func (r *RoomRepository) GetRoomByNumber(number int) (*models.Room, error) {
	var room models.Room
	if err := r.db.Where("number = ?", number).First(&room).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

// GetRoomsWithOccupancy lists rooms with the count of admitted patients in each
func (r *RoomRepository) GetRoomsWithOccupancy() ([]models.RoomWithOccupancy, error) {
	var rooms []models.RoomWithOccupancy
	err := r.db.Model(&models.Room{}).
		Select("rooms.*, (SELECT COUNT(*) FROM patients WHERE patients.room_id = rooms.id AND patients.date_discharged IS NULL) AS occupants").
		Order("rooms.id ASC").
		Scan(&rooms).Error
	return rooms, err
}

// CreateRoom creates a new room
func (r *RoomRepository) CreateRoom(room *models.Room) error {
	return r.db.Create(room).Error
}
