package repository

import (
	"errors"

	"hospital-workflow-backend/internal/models"

	"gorm.io/gorm"
)

// ErrRefreshTokenNotFound is returned for unknown or revoked refresh tokens
var ErrRefreshTokenNotFound = errors.New("refresh token not found or revoked")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindUserByUsername finds a user by username
func (r *UserRepository) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUserByID finds a user by ID
func (r *UserRepository) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetAllUsers lists every login account by ascending ID
func (r *UserRepository) GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

// CountByRole counts the accounts holding a role
func (r *UserRepository) CountByRole(role models.Role) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// UsernamesWithPrefix returns every username starting with prefix
func (r *UserRepository) UsernamesWithPrefix(prefix string) ([]string, error) {
	var names []string
	err := r.db.Model(&models.User{}).
		Where("username LIKE ?", prefix+"%").
		Pluck("username", &names).Error
	return names, err
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// DeleteUsersByPersonAndRole removes a person's accounts for one role together with their refresh tokens
func (r *UserRepository) DeleteUsersByPersonAndRole(personID uint, role models.Role) error {
	var ids []uint
	if err := r.db.Model(&models.User{}).
		Where("person_id = ? AND role = ?", personID, role).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Where("user_id IN ?", ids).Delete(&models.RefreshToken{}).Error; err != nil {
		return err
	}
	return r.db.Where("id IN ?", ids).Delete(&models.User{}).Error
}

// CreateRefreshToken creates a new refresh token
func (r *UserRepository) CreateRefreshToken(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// FindRefreshTokenByHash finds a live refresh token by its hash
func (r *UserRepository) FindRefreshTokenByHash(hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.Where("token_hash = ? AND revoked = ?", hash, false).
		Preload("User").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// RevokeRefreshTokenByHash marks a refresh token as revoked by its hash
func (r *UserRepository) RevokeRefreshTokenByHash(hash string) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hash).
		Update("revoked", true).Error
}

// UpdatePasswordHash replaces a user's stored password hash
func (r *UserRepository) UpdatePasswordHash(userID uint, hash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash).Error
}
