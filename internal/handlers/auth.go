package handlers

import (
	"net/http"

	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account and returns it with a fresh token.
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.WrapError(apperrors.ErrCodeInvalidInput, err))
		return
	}
	user, err := a.users.Create(req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login validates credentials and returns a token.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.WrapError(apperrors.ErrCodeInvalidInput, err))
		return
	}
	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me returns the authenticated user's profile.
func (a *API) Me(c *gin.Context) {
	user, err := a.users.FindByID(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
