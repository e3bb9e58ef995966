package constants

import "time"

// Signaling message types exchanged over the meeting WebSocket.
const (
	MsgJoin              = "join"
	MsgLeave             = "leave"
	MsgOffer             = "offer"
	MsgAnswer            = "answer"
	MsgICECandidate      = "ice-candidate"
	MsgChat              = "chat"
	MsgParticipantJoined = "participantJoined"
	MsgParticipantLeft   = "participantLeft"
	MsgError             = "error"
)

const (
	DefaultWriteWait      = 10 * time.Second
	DefaultPongWait       = 60 * time.Second
	DefaultSendBufferSize = 64
	InviteCodeLength      = 10
)

// Default Value: 1024
const ENV_CONFIG_CACHE_SIZE = "CONFIG_CACHE_SIZE"

// Default Value: 5m
const ENV_CONFIG_CACHE_EXPIRED = "CONFIG_CACHE_EXPIRED"

// DB
const ENV_DB_DRIVER = "DB_DRIVER"
const ENV_DSN = "DSN"

// Auth
const ENV_JWT_SECRET = "JWT_SECRET"
const ENV_JWT_EXPIRE_HOURS = "JWT_EXPIRE_HOURS"

// Redis presence publisher (optional)
const ENV_REDIS_ADDR = "REDIS_ADDR"
const ENV_REDIS_PASSWORD = "REDIS_PASSWORD"
const ENV_REDIS_DB = "REDIS_DB"
const PresenceChannel = "lingmeet:presence"

// Meeting housekeeping
const ENV_MEETING_TTL_HOURS = "MEETING_TTL_HOURS"
const ENV_MEETING_SWEEP_SCHEDULE = "MEETING_SWEEP_SCHEDULE"

// Gin context field carrying the authenticated user ID
const UserField = "_lingmeet_uid"

const ENV_FRONTEND_URL = "FRONTEND_URL"
