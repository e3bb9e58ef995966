package store

import (
	"errors"

	"github.com/LingByte/LingMeetX/pkg/auth"
	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/LingByte/LingMeetX/pkg/models"
	"gorm.io/gorm"
)

// UserStore manages user accounts
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a user store
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a new account with a bcrypt-hashed password.
func (s *UserStore) Create(email, password, name string) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	if count > 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeEmailTaken, "Email is already registered")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	user := &models.User{Email: email, Password: hash, Name: name}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return user, nil
}

// FindByEmail looks up a user by email.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUserNotFound, "User not found")
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return &user, nil
}

// FindByID looks up a user by primary key.
func (s *UserStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUserNotFound, "User not found")
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return &user, nil
}

// Authenticate validates an email/password pair.
func (s *UserStore) Authenticate(email, password string) (*models.User, error) {
	user, err := s.FindByEmail(email)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeBadPassword, "Invalid email or password")
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeBadPassword, "Invalid email or password")
	}
	return user, nil
}
