package config

import (
	"log"
	"os"
	"time"

	"github.com/LingByte/LingMeetX/pkg/constants"
	"github.com/LingByte/LingMeetX/pkg/logger"
	"github.com/LingByte/LingMeetX/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `yaml:"port"`
	Host         string        `yaml:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// RedisConfig holds the optional presence publisher configuration. Presence
// publishing is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MeetingConfig holds meeting housekeeping configuration
type MeetingConfig struct {
	TTLHours      int    `yaml:"ttl_hours"`
	SweepSchedule string `yaml:"sweep_schedule"`
}

var GlobalConfig *Config

// Config System common config
type Config struct {
	Server      ServerConfig     `yaml:"server"`
	Log         logger.LogConfig `yaml:"log"`
	JWT         JWTConfig        `yaml:"jwt"`
	Redis       RedisConfig      `yaml:"redis"`
	Meeting     MeetingConfig    `yaml:"meeting"`
	DBDriver    string           `yaml:"db_driver"`
	DSN         string           `yaml:"dsn"`
	Addr        string           `yaml:"addr"`
	Mode        string           `yaml:"mode"`
	ServerName  string           `yaml:"server_name"`
	FrontendURL string           `yaml:"frontend_url"`
	SSLEnabled  bool             `yaml:"ssl_enabled"`
	SSLCertFile string           `yaml:"ssl_cert_file"`
	SSLKeyFile  string           `yaml:"ssl_key_file"`
}

// Load builds GlobalConfig from the environment. Every key has a default so
// the server starts with no .env file at all. When CONFIG_FILE points at a
// YAML file its values override the environment-derived ones.
func Load() error {
	mode := utils.GetStringOrDefault("MODE", "development")
	err := utils.LoadEnv(mode)
	if err != nil {
		log.Printf("Note: .env file not found or failed to load: %v (using default values)", err)
	}
	GlobalConfig = &Config{
		Server: ServerConfig{
			Port:         utils.GetIntOrDefault("PORT", 7073),
			Host:         utils.GetStringOrDefault("HOST", ""),
			ReadTimeout:  time.Duration(utils.GetIntOrDefault("READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(utils.GetIntOrDefault("WRITE_TIMEOUT", 30)) * time.Second,
			IdleTimeout:  time.Duration(utils.GetIntOrDefault("IDLE_TIMEOUT", 120)) * time.Second,
		},
		Log: logger.LogConfig{
			Level:      utils.GetStringOrDefault("LOG_LEVEL", "info"),
			Filename:   utils.GetStringOrDefault("LOG_FILENAME", "./logs/app.log"),
			MaxSize:    utils.GetIntOrDefault("LOG_MAX_SIZE", 100),
			MaxAge:     utils.GetIntOrDefault("LOG_MAX_AGE", 30),
			MaxBackups: utils.GetIntOrDefault("LOG_MAX_BACKUPS", 5),
			Daily:      utils.GetBoolOrDefault("LOG_DAILY", true),
		},
		JWT: JWTConfig{
			Secret:      utils.GetStringOrDefault(constants.ENV_JWT_SECRET, "lingmeet-dev-secret"),
			ExpireHours: utils.GetIntOrDefault(constants.ENV_JWT_EXPIRE_HOURS, 72),
		},
		Redis: RedisConfig{
			Addr:     utils.GetStringOrDefault(constants.ENV_REDIS_ADDR, ""),
			Password: utils.GetStringOrDefault(constants.ENV_REDIS_PASSWORD, ""),
			DB:       utils.GetIntOrDefault(constants.ENV_REDIS_DB, 0),
		},
		Meeting: MeetingConfig{
			TTLHours:      utils.GetIntOrDefault(constants.ENV_MEETING_TTL_HOURS, 12),
			SweepSchedule: utils.GetStringOrDefault(constants.ENV_MEETING_SWEEP_SCHEDULE, "@every 10m"),
		},
		Mode:        mode,
		DBDriver:    utils.GetStringOrDefault(constants.ENV_DB_DRIVER, "sqlite"),
		DSN:         utils.GetStringOrDefault(constants.ENV_DSN, "./lingmeet.db"),
		Addr:        utils.GetStringOrDefault("ADDR", ":7073"),
		ServerName:  utils.GetStringOrDefault("SERVER_NAME", "LingMeetX"),
		FrontendURL: utils.GetStringOrDefault(constants.ENV_FRONTEND_URL, "http://localhost:5173"),
		SSLEnabled:  utils.GetBoolOrDefault("SSL_ENABLED", false),
		SSLCertFile: utils.GetStringOrDefault("SSL_CERT_FILE", ""),
		SSLKeyFile:  utils.GetStringOrDefault("SSL_KEY_FILE", ""),
	}
	if path := utils.GetStringOrDefault("CONFIG_FILE", ""); path != "" {
		if err := overlayFile(GlobalConfig, path); err != nil {
			return err
		}
	}
	return nil
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
