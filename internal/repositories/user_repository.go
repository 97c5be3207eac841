package repositories

import "shelving/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetAll() ([]models.User, error)
	Count() (int64, error)
}
