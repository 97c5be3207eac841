package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shelving/internal/models"
	"shelving/internal/store"
)

// GORMUserRepository is a GORM implementation of UserRepository backed by
// the embedded store.
type GORMUserRepository struct {
	store *store.Store
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(s *store.Store) *GORMUserRepository {
	return &GORMUserRepository{store: s}
}

// Create inserts a new user row.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.store.DB().Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their (case-folded) username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.store.DB().First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with username %s not found", username)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetAll retrieves every user row.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.store.DB().Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// Count reports how many users exist. The registration gate closes as soon
// as this is non-zero.
func (r *GORMUserRepository) Count() (int64, error) {
	var n int64
	if err := r.store.DB().Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
