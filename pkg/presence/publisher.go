package presence

import (
	"context"
	"time"

	"github.com/LingByte/LingMeetX/pkg/constants"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// Event is a participant membership change visible to every relay instance.
type Event struct {
	Kind      string    `json:"kind"` // "join" or "leave"
	MeetingID uint      `json:"meetingId"`
	UserID    uint      `json:"userId"`
	At        time.Time `json:"at"`
}

// Publisher fans participant events out over a Redis channel so other relay
// instances (and any interested consumer) can observe room membership.
// Publishing is best-effort; failures are logged and dropped.
type Publisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewClient builds a Redis client from config values.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewPublisher creates a publisher over the given client.
func NewPublisher(client *redis.Client, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client:  client,
		channel: constants.PresenceChannel,
		logger:  logger,
	}
}

// PublishJoin announces a participant joining a meeting.
func (p *Publisher) PublishJoin(meetingID, userID uint) {
	p.publish(Event{Kind: "join", MeetingID: meetingID, UserID: userID, At: time.Now()})
}

// PublishLeave announces a participant leaving a meeting.
func (p *Publisher) PublishLeave(meetingID, userID uint) {
	p.publish(Event{Kind: "leave", MeetingID: meetingID, UserID: userID, At: time.Now()})
}

func (p *Publisher) publish(ev Event) {
	data, err := sonic.Marshal(&ev)
	if err != nil {
		p.logger.Error("presence event encode failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.logger.Warn("presence publish failed",
			zap.String("kind", ev.Kind),
			zap.Uint("meeting_id", ev.MeetingID),
			zap.Error(err))
	}
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
