package store

import (
	"errors"
	"time"

	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/LingByte/LingMeetX/pkg/models"
	"gorm.io/gorm"
)

// TeamStore manages teams and memberships
type TeamStore struct {
	db *gorm.DB
}

// NewTeamStore creates a team store
func NewTeamStore(db *gorm.DB) *TeamStore {
	return &TeamStore{db: db}
}

// Create creates a team owned by ownerID; the owner becomes the first member.
func (s *TeamStore) Create(name, description string, ownerID uint) (*models.Team, error) {
	team := &models.Team{Name: name, Description: description, OwnerID: ownerID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		member := &models.TeamMember{TeamID: team.ID, UserID: ownerID, JoinedAt: time.Now()}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return team, nil
}

// ListForUser returns every team the user belongs to.
func (s *TeamStore) ListForUser(userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Find(&teams).Error
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return teams, nil
}

// FindByID looks up a team by primary key.
func (s *TeamStore) FindByID(id uint) (*models.Team, error) {
	var team models.Team
	err := s.db.First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeTeamNotFound, "Team not found")
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return &team, nil
}

// AddMember adds a user to a team; adding an existing member is a no-op.
func (s *TeamStore) AddMember(teamID, userID uint) error {
	var count int64
	if err := s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).Count(&count).Error; err != nil {
		return apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	if count > 0 {
		return nil
	}
	member := &models.TeamMember{TeamID: teamID, UserID: userID, JoinedAt: time.Now()}
	if err := s.db.Create(member).Error; err != nil {
		return apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return nil
}
