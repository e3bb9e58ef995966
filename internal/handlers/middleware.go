package handlers

import (
	"net/http"
	"strings"

	"github.com/LingByte/LingMeetX/pkg/auth"
	"github.com/LingByte/LingMeetX/pkg/constants"
	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and stores the user ID in the gin
// context for downstream handlers.
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			token = ""
		}
		userID, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, auth.ToAppError(err))
			return
		}
		c.Set(constants.UserField, userID)
		c.Next()
	}
}

// currentUser returns the authenticated user ID placed by AuthRequired.
func currentUser(c *gin.Context) uint {
	v, ok := c.Get(constants.UserField)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// respondError writes an AppError with its mapped HTTP status, or 500 for
// unclassified errors.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	c.JSON(http.StatusInternalServerError,
		apperrors.WrapError(apperrors.ErrCodeInternal, err))
}
