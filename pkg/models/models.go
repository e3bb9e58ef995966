package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Team represents a collaboration group
type Team struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	OwnerID     uint      `gorm:"index" json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TeamMember links a user to a team
type TeamMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TeamID   uint      `gorm:"index:idx_team_user,unique" json:"teamId"`
	UserID   uint      `gorm:"index:idx_team_user,unique" json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Meeting represents a scheduled or live meeting
type Meeting struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	HostID      uint       `gorm:"index" json:"hostId"`
	InviteCode  string     `gorm:"uniqueIndex" json:"inviteCode"`
	StartTime   time.Time  `gorm:"not null" json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MeetingParticipant records a user's presence window in a meeting. LeftAt
// stays nil while the participant is still in the meeting.
type MeetingParticipant struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MeetingID uint       `gorm:"index" json:"meetingId"`
	UserID    uint       `gorm:"index" json:"userId"`
	JoinedAt  time.Time  `json:"joinedAt"`
	LeftAt    *time.Time `json:"leftAt"`
}

// ChatMessage is a persisted in-meeting chat line
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MeetingID uint      `gorm:"index" json:"meetingId"`
	UserID    uint      `gorm:"index" json:"userId"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entities lists every model for automigration.
func Entities() []interface{} {
	return []interface{}{
		&User{},
		&Team{},
		&TeamMember{},
		&Meeting{},
		&MeetingParticipant{},
		&ChatMessage{},
	}
}
