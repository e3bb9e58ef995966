package handlers

import (
	"net/http"
	"strconv"

	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/gin-gonic/gin"
)

type createTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// ListTeams returns the caller's teams.
func (a *API) ListTeams(c *gin.Context) {
	teams, err := a.teams.ListForUser(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// CreateTeam creates a team owned by the caller.
func (a *API) CreateTeam(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.WrapError(apperrors.ErrCodeInvalidInput, err))
		return
	}
	team, err := a.teams.Create(req.Name, req.Description, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// AddTeamMember adds a user to a team.
func (a *API) AddTeamMember(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Invalid team id"))
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.WrapError(apperrors.ErrCodeInvalidInput, err))
		return
	}
	if _, err := a.teams.FindByID(uint(teamID)); err != nil {
		respondError(c, err)
		return
	}
	if err := a.teams.AddMember(uint(teamID), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}
