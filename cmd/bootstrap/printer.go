package bootstrap

import (
	"fmt"

	"github.com/LingByte/LingMeetX/pkg/config"
	"github.com/LingByte/LingMeetX/pkg/logger"
	"go.uber.org/zap"
)

// LogConfigInfo Print global configuration information
func LogConfigInfo() {
	logger.Info("system config load finished")

	logger.Info("base config",
		zap.String("db_driver", config.GlobalConfig.DBDriver),
		zap.String("dsn", config.GlobalConfig.DSN),
		zap.String("addr", config.GlobalConfig.Addr),
		zap.String("frontend_url", config.GlobalConfig.FrontendURL),
	)

	logger.Info("log config",
		zap.String("log_level", config.GlobalConfig.Log.Level),
		zap.String("log_filename", config.GlobalConfig.Log.Filename),
		zap.Int("log_max_size", config.GlobalConfig.Log.MaxSize),
		zap.Int("log_max_age", config.GlobalConfig.Log.MaxAge),
		zap.Int("log_max_backups", config.GlobalConfig.Log.MaxBackups),
	)
}

// PrintBanner prints the startup banner.
func PrintBanner(name string) {
	colors := []string{
		"\x1b[38;5;39m",
		"\x1b[38;5;45m",
		"\x1b[38;5;51m",
	}
	lines := []string{
		"=========================================",
		"  " + name + " | meetings & signaling",
		"=========================================",
	}
	for i, line := range lines {
		fmt.Println(colors[i%len(colors)] + line + "\x1b[0m")
	}
}
