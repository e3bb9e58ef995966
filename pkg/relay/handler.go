package relay

import (
	"net/http"
	"time"

	"github.com/LingByte/LingMeetX/pkg/auth"
	"github.com/LingByte/LingMeetX/pkg/constants"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = constants.DefaultWriteWait
	pongWait   = constants.DefaultPongWait
	pingPeriod = (constants.DefaultPongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

// Handler upgrades HTTP requests to signaling WebSocket connections. The
// bearer credential arrives in the `token` query parameter (or Authorization
// header) and is verified before any relay state is recorded.
type Handler struct {
	router   *Router
	tokens   *auth.TokenManager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a WebSocket handler bound to the router. allowedOrigin
// is the frontend URL; empty allows all origins (dev mode).
func NewHandler(router *Router, tokens *auth.TokenManager, allowedOrigin string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		router: router,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

// Serve is the gin handler for the signaling endpoint.
func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = bearerToken(c.Request)
	}
	userID, err := h.tokens.Verify(token)
	if err != nil {
		// Reject before upgrade so failed credentials leave no state behind.
		c.JSON(http.StatusUnauthorized, auth.ToAppError(err))
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := NewConn(userID)
	if err := h.router.Attach(conn); err != nil {
		h.logger.Warn("connection attach failed",
			zap.String("conn_id", string(conn.ID)), zap.Error(err))
		_ = ws.Close()
		return
	}

	go h.writePump(ws, conn)
	h.readPump(ws, conn)
}

// readPump drives the connection until the transport closes, then runs the
// teardown path exactly once.
func (h *Handler) readPump(ws *websocket.Conn, conn *Conn) {
	defer func() {
		h.router.Teardown(conn)
		_ = ws.Close()
	}()
	ws.SetReadLimit(maxMsgSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error",
					zap.String("conn_id", string(conn.ID)), zap.Error(err))
			}
			return
		}
		if err := h.router.HandleMessage(conn, raw); err != nil {
			// Fatal protocol violation; the deferred teardown cleans up.
			return
		}
	}
}

// writePump drains the connection's outbound channel onto the socket and
// keeps the connection alive with pings. The channel closing (teardown)
// terminates the pump with a close frame.
func (h *Handler) writePump(ws *websocket.Conn, conn *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()
	for {
		select {
		case frame, ok := <-conn.Outbound():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
