package listeners

import (
	"crypto/tls"
	"os"
	"time"

	"github.com/LingByte/LingMeetX/pkg/config"
	"github.com/LingByte/LingMeetX/pkg/logger"
	"github.com/LingByte/LingMeetX/pkg/store"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IsSSLEnabled reports whether usable certificate files are configured.
func IsSSLEnabled() bool {
	cfg := config.GlobalConfig
	if cfg == nil || cfg.SSLCertFile == "" || cfg.SSLKeyFile == "" {
		return false
	}
	if _, err := os.Stat(cfg.SSLCertFile); err != nil {
		return false
	}
	if _, err := os.Stat(cfg.SSLKeyFile); err != nil {
		return false
	}
	return true
}

// GetTLSConfig loads the configured certificate pair.
func GetTLSConfig() (*tls.Config, error) {
	cfg := config.GlobalConfig
	cert, err := tls.LoadX509KeyPair(cfg.SSLCertFile, cfg.SSLKeyFile)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// StartMeetingSweeper schedules the background job that auto-ends meetings
// still marked active past their TTL. Returns the running scheduler so the
// caller can stop it on shutdown.
func StartMeetingSweeper(meetings *store.MeetingStore) (*cron.Cron, error) {
	cfg := config.GlobalConfig.Meeting
	ttl := time.Duration(cfg.TTLHours) * time.Hour

	c := cron.New()
	_, err := c.AddFunc(cfg.SweepSchedule, func() {
		n, err := meetings.EndStale(ttl)
		if err != nil {
			logger.Error("meeting sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("stale meetings closed", zap.Int("count", n))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Info("meeting sweeper started",
		zap.String("schedule", cfg.SweepSchedule),
		zap.Duration("ttl", ttl))
	return c, nil
}
