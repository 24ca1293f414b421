// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the env-driven server configuration. The validation delay and
// window durations are tunable because their literal values only need to be
// long enough for clients to render the optimistic play; correctness never
// depends on them.
type Config struct {
	Addr string

	ValidateDelay time.Duration
	SingWindow    time.Duration
	SpadeWindow   time.Duration

	RedisAddr string // empty disables the play journal
	PGHost    string // empty disables the match archive
}

// Load reads the environment (godotenv has already populated it in main).
func Load() Config {
	return Config{
		Addr:          ":" + getEnv("PORT", "8080"),
		ValidateDelay: msEnv("VALIDATE_DELAY_MS", 400),
		SingWindow:    msEnv("SING_WINDOW_MS", 10000),
		SpadeWindow:   msEnv("SPADE_WINDOW_MS", 7000),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		PGHost:        os.Getenv("PG_HOST"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func msEnv(key string, def int) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return time.Duration(def) * time.Millisecond
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return time.Duration(def) * time.Millisecond
	}
	return time.Duration(v) * time.Millisecond
}
