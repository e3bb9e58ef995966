package handlers

import (
	"net/http"
	"strconv"

	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/gin-gonic/gin"
)

type createMeetingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func meetingID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Invalid meeting id")
	}
	return uint(id), nil
}

// CreateMeeting starts a meeting hosted by the caller.
func (a *API) CreateMeeting(c *gin.Context) {
	var req createMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.WrapError(apperrors.ErrCodeInvalidInput, err))
		return
	}
	meeting, err := a.meetings.Create(req.Title, req.Description, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meeting)
}

// GetMeeting returns a meeting by ID.
func (a *API) GetMeeting(c *gin.Context) {
	id, err := meetingID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	meeting, err := a.meetings.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meeting)
}

// JoinMeeting records the caller as a participant (REST path; the live path
// goes through the signaling relay).
func (a *API) JoinMeeting(c *gin.Context) {
	id, err := meetingID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	meeting, err := a.meetings.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !meeting.IsActive {
		respondError(c, apperrors.NewAppError(apperrors.ErrCodeMeetingEnded, "Meeting has ended"))
		return
	}
	if err := a.meetings.AddParticipant(id, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": true})
}

// LeaveMeeting stamps the caller's departure.
func (a *API) LeaveMeeting(c *gin.Context) {
	id, err := meetingID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := a.meetings.RemoveParticipant(id, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}

// ListParticipants returns the meeting's participant history.
func (a *API) ListParticipants(c *gin.Context) {
	id, err := meetingID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := a.meetings.Participants(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// EndMeeting closes the meeting; host only.
func (a *API) EndMeeting(c *gin.Context) {
	id, err := meetingID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	meeting, err := a.meetings.End(id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meeting)
}

// MeetingMessages returns persisted chat history for a meeting.
func (a *API) MeetingMessages(c *gin.Context) {
	id, err := meetingID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	msgs, err := a.chats.History(id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
