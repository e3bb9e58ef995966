package bootstrap

import (
	"fmt"
	"io"

	"github.com/LingByte/LingMeetX/pkg/config"
	"github.com/LingByte/LingMeetX/pkg/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options controls database setup behavior
type Options struct {
	AutoMigrate bool // migrate entities on startup
	SeedNonProd bool // insert development fixtures
}

// SetupDatabase opens the configured database and optionally migrates and
// seeds it. The sqlite driver is pure Go so development needs no external
// database at all.
func SetupDatabase(w io.Writer, opts *Options) (*gorm.DB, error) {
	cfg := config.GlobalConfig
	if opts == nil {
		opts = &Options{}
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}

	gormCfg := &gorm.Config{}
	if cfg.Mode != "dev" && cfg.Mode != "development" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if opts.AutoMigrate {
		if err := db.AutoMigrate(models.Entities()...); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		fmt.Fprintln(w, "database migrated")
	}

	if opts.SeedNonProd && cfg.Mode != "production" {
		seeder := &SeedService{db: db}
		if err := seeder.SeedAll(); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintln(w, "development fixtures seeded")
	}

	return db, nil
}
