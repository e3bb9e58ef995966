package bootstrap

import (
	"errors"

	"github.com/LingByte/LingMeetX/pkg/auth"
	"github.com/LingByte/LingMeetX/pkg/models"
	"gorm.io/gorm"
)

type SeedService struct {
	db *gorm.DB
}

// SeedAll inserts development fixtures. Existing rows are left alone so
// reseeding is safe.
func (s *SeedService) SeedAll() error {
	return s.seedUsers()
}

func (s *SeedService) seedUsers() error {
	defaults := []struct {
		Email    string
		Password string
		Name     string
	}{
		{"admin@lingmeet.local", "admin12345", "Admin"},
		{"demo@lingmeet.local", "demo12345", "Demo User"},
	}
	for _, u := range defaults {
		var existing models.User
		result := s.db.Where("email = ?", u.Email).First(&existing)
		if result.Error == nil {
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return err
		}
		user := models.User{Email: u.Email, Password: hash, Name: u.Name}
		if err := s.db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
