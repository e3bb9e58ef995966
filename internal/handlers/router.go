package handlers

import (
	"net/http"

	"github.com/LingByte/LingMeetX/pkg/auth"
	"github.com/LingByte/LingMeetX/pkg/relay"
	"github.com/LingByte/LingMeetX/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// API bundles the REST handlers with their stores.
type API struct {
	users    *store.UserStore
	meetings *store.MeetingStore
	teams    *store.TeamStore
	chats    *store.ChatStore
	tokens   *auth.TokenManager
}

// NewAPI creates the REST handler set.
func NewAPI(users *store.UserStore, meetings *store.MeetingStore, teams *store.TeamStore,
	chats *store.ChatStore, tokens *auth.TokenManager) *API {
	return &API{
		users:    users,
		meetings: meetings,
		teams:    teams,
		chats:    chats,
		tokens:   tokens,
	}
}

// RegisterRoutes mounts the REST API, the signaling WebSocket endpoint, and
// the operational endpoints on the gin engine.
func (a *API) RegisterRoutes(r *gin.Engine, ws *relay.Handler, frontendURL string) {
	r.Use(corsMiddleware(frontendURL))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ws/meetings", ws.Serve)

	api := r.Group("/api")
	api.POST("/auth/register", a.Register)
	api.POST("/auth/login", a.Login)

	authed := api.Group("", AuthRequired(a.tokens))
	authed.GET("/users/me", a.Me)

	authed.POST("/meetings", a.CreateMeeting)
	authed.GET("/meetings/:id", a.GetMeeting)
	authed.POST("/meetings/:id/join", a.JoinMeeting)
	authed.POST("/meetings/:id/leave", a.LeaveMeeting)
	authed.GET("/meetings/:id/participants", a.ListParticipants)
	authed.GET("/meetings/:id/messages", a.MeetingMessages)
	authed.DELETE("/meetings/:id", a.EndMeeting)

	authed.GET("/teams", a.ListTeams)
	authed.POST("/teams", a.CreateTeam)
	authed.POST("/teams/:id/members", a.AddTeamMember)
}

// corsMiddleware allows the configured frontend origin. 307 redirects are
// disabled at the engine level so preflights never bounce.
func corsMiddleware(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (frontendURL == "" || origin == frontendURL) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
