package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/LingByte/LingMeetX/pkg/constants"
	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/LingByte/LingMeetX/pkg/models"
	"github.com/LingByte/LingMeetX/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid"
	"gorm.io/gorm"
)

// MeetingStore manages meetings and participant bookkeeping. FindByID reads
// through the process cache since the relay resolves meetings on every join.
type MeetingStore struct {
	db *gorm.DB
}

// NewMeetingStore creates a meeting store
func NewMeetingStore(db *gorm.DB) *MeetingStore {
	return &MeetingStore{db: db}
}

// Create creates a meeting hosted by hostID, started now.
func (s *MeetingStore) Create(title, description string, hostID uint) (*models.Meeting, error) {
	code, err := gonanoid.Nanoid(constants.InviteCodeLength)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	meeting := &models.Meeting{
		Title:       title,
		Description: description,
		HostID:      hostID,
		InviteCode:  code,
		StartTime:   time.Now(),
		IsActive:    true,
	}
	if err := s.db.Create(meeting).Error; err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return meeting, nil
}

// FindByID looks up a meeting, serving repeat lookups from cache.
func (s *MeetingStore) FindByID(id uint) (*models.Meeting, error) {
	cacheKey := fmt.Sprintf("meeting:%d", id)
	if v, ok := utils.CacheGet(cacheKey); ok {
		if m, ok := v.(*models.Meeting); ok {
			return m, nil
		}
	}
	var meeting models.Meeting
	err := s.db.First(&meeting, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeMeetingNotFound, "Meeting not found")
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	utils.CacheSet(cacheKey, &meeting)
	return &meeting, nil
}

// AddParticipant records a join. A fresh row is inserted per join so repeated
// join/leave cycles keep their own presence windows.
func (s *MeetingStore) AddParticipant(meetingID, userID uint) error {
	participant := &models.MeetingParticipant{
		MeetingID: meetingID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	if err := s.db.Create(participant).Error; err != nil {
		return apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return nil
}

// RemoveParticipant stamps LeftAt on the user's open participant rows.
// Removing a user who never joined is a no-op.
func (s *MeetingStore) RemoveParticipant(meetingID, userID uint) error {
	now := time.Now()
	err := s.db.Model(&models.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ? AND left_at IS NULL", meetingID, userID).
		Update("left_at", now).Error
	if err != nil {
		return apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return nil
}

// Participants returns all participant rows for a meeting.
func (s *MeetingStore) Participants(meetingID uint) ([]models.MeetingParticipant, error) {
	var rows []models.MeetingParticipant
	if err := s.db.Where("meeting_id = ?", meetingID).Order("joined_at").Find(&rows).Error; err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return rows, nil
}

// End marks the meeting inactive and stamps its end time. Only the host may
// end a meeting.
func (s *MeetingStore) End(id, callerID uint) (*models.Meeting, error) {
	meeting, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if meeting.HostID != callerID {
		return nil, apperrors.NewAppError(apperrors.ErrCodeNotHost, "Only the host can end the meeting")
	}
	return s.end(meeting)
}

// end closes the meeting in the database and returns a copy. The passed-in
// struct may be the shared cached object, so it is never written to.
func (s *MeetingStore) end(meeting *models.Meeting) (*models.Meeting, error) {
	now := time.Now()
	err := s.db.Model(&models.Meeting{}).Where("id = ?", meeting.ID).
		Updates(map[string]interface{}{"is_active": false, "end_time": now}).Error
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	utils.CacheDelete(fmt.Sprintf("meeting:%d", meeting.ID))
	ended := *meeting
	ended.IsActive = false
	ended.EndTime = &now
	return &ended, nil
}

// EndStale ends active meetings whose start time is older than ttl. Used by
// the background sweeper. Returns how many meetings were closed.
func (s *MeetingStore) EndStale(ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)
	var stale []models.Meeting
	if err := s.db.Where("is_active = ? AND start_time < ?", true, cutoff).Find(&stale).Error; err != nil {
		return 0, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	for i := range stale {
		if _, err := s.end(&stale[i]); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}
