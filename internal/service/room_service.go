package service

import (
	"errors"
	"fmt"
	"strings"

	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
)

// RoomService manages rooms and departments, the reference data admissions depend on
type RoomService struct {
	roomRepo       *repository.RoomRepository
	departmentRepo *repository.DepartmentRepository
	auditRepo      *repository.AuditRepository
}

func NewRoomService(
	roomRepo *repository.RoomRepository,
	departmentRepo *repository.DepartmentRepository,
	auditRepo *repository.AuditRepository,
) *RoomService {
	return &RoomService{
		roomRepo:       roomRepo,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
	}
}

// CreateRoomRequest describes a new room
type CreateRoomRequest struct {
	Number   int    `json:"number" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
}

// ListRooms returns every room with its current occupancy
func (s *RoomService) ListRooms() ([]RoomView, error) {
	rooms, err := s.roomRepo.GetRoomsWithOccupancy()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	views := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, RoomView{
			Room:      r.Room,
			Occupants: r.Occupants,
			Available: r.HasSpace(),
			Display:   FormatRoom(r.Room),
		})
	}
	return views, nil
}

// CreateRoom adds a room. Room numbers are unique.
func (s *RoomService) CreateRoom(req CreateRoomRequest, userID uint) (*models.Room, error) {
	roomType := strings.TrimSpace(req.Type)
	if req.Number <= 0 || roomType == "" || req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: room number, type and a positive capacity are required", ErrValidation)
	}

	_, err := s.roomRepo.GetRoomByNumber(req.Number)
	if err == nil {
		return nil, fmt.Errorf("%w: room %d already exists", ErrConflict, req.Number)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check room number: %w", err)
	}

	room := &models.Room{Number: req.Number, Type: roomType, Capacity: req.Capacity}
	if err := s.roomRepo.CreateRoom(room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	userIDPtr := &userID
	details := fmt.Sprintf("Created room: %s (capacity: %d)", FormatRoom(*room), room.Capacity)
	_ = s.auditRepo.CreateAuditLog(userIDPtr, "room_create", details)

	return room, nil
}

// ListDepartments returns departments ordered by name
func (s *RoomService) ListDepartments() ([]models.Department, error) {
	return s.departmentRepo.GetAllDepartments()
}

// CreateDepartment adds a department. Names are unique.
func (s *RoomService) CreateDepartment(name, description string, userID uint) (*models.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: department name is required", ErrValidation)
	}

	_, err := s.departmentRepo.GetDepartmentByName(name)
	if err == nil {
		return nil, fmt.Errorf("%w: department %q already exists", ErrConflict, name)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check department name: %w", err)
	}

	department := &models.Department{Name: name, Description: strings.TrimSpace(description)}
	if err := s.departmentRepo.CreateDepartment(department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	userIDPtr := &userID
	_ = s.auditRepo.CreateAuditLog(userIDPtr, "department_create", fmt.Sprintf("Created department: %s", name))

	return department, nil
}
