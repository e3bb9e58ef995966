package store

import (
	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/LingByte/LingMeetX/pkg/models"
	"gorm.io/gorm"
)

// ChatStore persists in-meeting chat history
type ChatStore struct {
	db *gorm.DB
}

// NewChatStore creates a chat store
func NewChatStore(db *gorm.DB) *ChatStore {
	return &ChatStore{db: db}
}

// Save persists one chat message.
func (s *ChatStore) Save(meetingID, userID uint, content string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{MeetingID: meetingID, UserID: userID, Content: content}
	if err := s.db.Create(msg).Error; err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return msg, nil
}

// SaveMessage persists a message, discarding the stored row. It exists so
// the store can sit behind the relay's chat sink.
func (s *ChatStore) SaveMessage(meetingID, userID uint, content string) error {
	_, err := s.Save(meetingID, userID, content)
	return err
}

// History returns up to limit messages for a meeting, oldest first.
func (s *ChatStore) History(meetingID uint, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var msgs []models.ChatMessage
	err := s.db.Where("meeting_id = ?", meetingID).
		Order("created_at").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternal, err)
	}
	return msgs, nil
}
