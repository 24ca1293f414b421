// cmd/server/main.go
package main

import (
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/larsmn/olsen/internal/auth"
	"github.com/larsmn/olsen/internal/cache"
	"github.com/larsmn/olsen/internal/config"
	"github.com/larsmn/olsen/internal/database"
	"github.com/larsmn/olsen/internal/handlers"
	"github.com/larsmn/olsen/internal/middleware"
	"github.com/larsmn/olsen/internal/models"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	auth.Init()
	cfg := config.Load()

	// The journal and the archive are optional sidecars. A missing Redis or
	// Postgres downgrades to in-memory-only operation, not a crash.
	if cfg.RedisAddr != "" {
		if err := cache.ConnectRedis(cfg.RedisAddr); err != nil {
			logger.Warnf("play journal disabled: %v", err)
		}
	}
	if cfg.PGHost != "" {
		if err := database.ConnectDB(); err != nil {
			logger.Warnf("match archive disabled: %v", err)
		}
	}

	applyTimingDefaults(cfg)

	rs := handlers.NewRoomServer(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/room/create", rs.CreateRoomHandler)
	mux.HandleFunc("/room/list", rs.ListRoomsHandler)
	mux.HandleFunc("/room/ws/", rs.RoomWebSocketHandler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.LogMiddleware(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Infof("Listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

// applyTimingDefaults folds the env-driven timings into the room defaults so
// every new room inherits them unless its create payload overrides.
func applyTimingDefaults(cfg config.Config) {
	def := models.DefaultSettings()
	def.ValidateDelay = cfg.ValidateDelay
	def.SingWindow = cfg.SingWindow
	def.SpadeWindow = cfg.SpadeWindow
	def.SingWindowMs = cfg.SingWindow.Milliseconds()
	models.SetDefaultSettings(def)
}
