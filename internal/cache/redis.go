// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup;
// when nil, the play journal is disabled.
var Rdb *redis.Client

// DefaultQueueName is the Redis list the play journal is pushed to.
var DefaultQueueName = "olsen_plays"

// PlayRecord is one journaled room event (a validated play or a penalty) for
// consumption by an external historian.
type PlayRecord struct {
	RoomID    string                 `json:"room_id"`
	Seq       int64                  `json:"seq"`
	Kind      string                 `json:"kind"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp int64                  `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client against addr
// (REDIS_DB optionally selects a database index).
func ConnectRedis(addr string) error {
	dbIdx := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		fmt.Sscanf(s, "%d", &dbIdx)
	}

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishPlayRecord serializes the record and pushes it onto the journal
// queue. Callers fire this from a goroutine; it never touches room state.
func PublishPlayRecord(ctx context.Context, record PlayRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal PlayRecord: %w", err)
	}
	queueName := DefaultQueueName
	if q := os.Getenv("JOURNAL_QUEUE_NAME"); q != "" {
		queueName = q
	}
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}
