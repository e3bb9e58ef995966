package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/LingByte/LingMeetX/cmd/bootstrap"
	"github.com/LingByte/LingMeetX/internal/handlers"
	"github.com/LingByte/LingMeetX/internal/listeners"
	"github.com/LingByte/LingMeetX/pkg/auth"
	"github.com/LingByte/LingMeetX/pkg/config"
	"github.com/LingByte/LingMeetX/pkg/logger"
	"github.com/LingByte/LingMeetX/pkg/presence"
	"github.com/LingByte/LingMeetX/pkg/relay"
	"github.com/LingByte/LingMeetX/pkg/store"
	"github.com/LingByte/LingMeetX/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Parse Command Line Parameters
	addr := flag.String("port", "", "Port to listen on")
	mode := flag.String("mode", "", "running environment (development, test, production)")
	init := flag.Bool("init", false, "initialize database")
	flag.Parse()
	if *mode != "" {
		os.Setenv("MODE", *mode)
	}
	// 2. Load Global Configuration
	if err := config.Load(); err != nil {
		panic("config load failed: " + err.Error())
	}
	// 3. Load Log Configuration
	if err := logger.Init(&config.GlobalConfig.Log, config.GlobalConfig.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()
	// 4. Print Banner and Configuration
	bootstrap.PrintBanner(config.GlobalConfig.ServerName)
	bootstrap.LogConfigInfo()
	// 5. Load Data Source
	db, err := bootstrap.SetupDatabase(os.Stdout, &bootstrap.Options{
		AutoMigrate: true,
		SeedNonProd: *init,
	})
	if err != nil {
		logger.Error("database setup failed", zap.Error(err))
		return
	}
	// 6. Resolve Listen Address
	if *addr == "" {
		*addr = config.GlobalConfig.Addr
	}
	if !strings.HasPrefix(*addr, ":") {
		*addr = ":" + *addr
	}
	logger.Info("checked config -- addr: ", zap.String("addr", *addr))
	logger.Info("checked config -- mode: ", zap.String("mode", config.GlobalConfig.Mode))
	// 7. Load Global Cache
	utils.InitGlobalCache(1024, 5*time.Minute)

	// 8. Build Stores and Token Manager
	users := store.NewUserStore(db)
	meetings := store.NewMeetingStore(db)
	teams := store.NewTeamStore(db)
	chats := store.NewChatStore(db)
	tokens := auth.NewTokenManager(
		config.GlobalConfig.JWT.Secret,
		time.Duration(config.GlobalConfig.JWT.ExpireHours)*time.Hour,
	)

	// 9. Build the Signaling Relay
	registry := relay.NewRegistry()
	rooms := relay.NewRoomTable()
	router := relay.NewRouter(registry, rooms, meetings, logger.Lg)
	router.SetChatSink(chats)
	if config.GlobalConfig.Redis.Addr != "" {
		client := presence.NewClient(
			config.GlobalConfig.Redis.Addr,
			config.GlobalConfig.Redis.Password,
			config.GlobalConfig.Redis.DB,
		)
		pub := presence.NewPublisher(client, logger.Lg)
		defer pub.Close()
		router.SetPublisher(pub)
		logger.Info("presence publisher enabled",
			zap.String("redis_addr", config.GlobalConfig.Redis.Addr))
	}
	ws := relay.NewHandler(router, tokens, config.GlobalConfig.FrontendURL, logger.Lg)

	// 10. Mount HTTP Routes
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	// Disable automatic redirects to avoid CORS issues caused by 307 redirects
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	api := handlers.NewAPI(users, meetings, teams, chats, tokens)
	api.RegisterRoutes(r, ws, config.GlobalConfig.FrontendURL)

	// 11. Background Housekeeping
	sweeper, err := listeners.StartMeetingSweeper(meetings)
	if err != nil {
		logger.Error("meeting sweeper setup failed", zap.Error(err))
		return
	}
	defer sweeper.Stop()

	httpServer := &http.Server{
		Addr:           *addr,
		Handler:        r,
		ReadTimeout:    config.GlobalConfig.Server.ReadTimeout,
		WriteTimeout:   config.GlobalConfig.Server.WriteTimeout,
		IdleTimeout:    config.GlobalConfig.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	if config.GlobalConfig.SSLEnabled && listeners.IsSSLEnabled() {
		tlsConfig, err := listeners.GetTLSConfig()
		if err != nil {
			logger.Error("failed to get TLS config", zap.Error(err))
			return
		}
		httpServer.TLSConfig = tlsConfig
		logger.Info("Starting HTTPS server", zap.String("addr", *addr))
		if err := httpServer.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTPS server run failed", zap.Error(err))
		}
	} else {
		logger.Info("Starting HTTP server", zap.String("addr", *addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server run failed", zap.Error(err))
		}
	}
}
