// Package cache maintains the Redis connection and the per-session action
// history streams. Redis is optional: when Rdb is nil every publisher is a
// no-op and gameplay proceeds without history.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil until InitRedis succeeds.
var Rdb *redis.Client

// SessionActionRecord is one entry of a session's action history stream.
type SessionActionRecord struct {
	SessionID   uuid.UUID              `json:"session_id"`
	ActionIndex int                    `json:"action_index"`
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp_ms"`
}

// InitRedis connects using REDIS_URL (redis://host:port/db). An unset
// REDIS_URL leaves Rdb nil, which disables history publishing.
func InitRedis(ctx context.Context, logger *logrus.Logger) error {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		logger.Info("REDIS_URL not set, action history disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	Rdb = client
	logger.WithField("addr", opts.Addr).Info("connected to redis")
	return nil
}

// sessionStreamKey returns the stream key holding a session's history.
func sessionStreamKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:%s:actions", sessionID)
}

// PublishSessionAction appends one record to the session's history stream.
// Streams expire a day after the last write.
func PublishSessionAction(ctx context.Context, rec SessionActionRecord) error {
	if Rdb == nil {
		return nil
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}

	key := sessionStreamKey(rec.SessionID)
	pipe := Rdb.Pipeline()
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		Values: map[string]interface{}{"record": payload},
	})
	pipe.Expire(ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append action %d: %w", rec.ActionIndex, err)
	}
	return nil
}

// SessionActionHistory reads back a session's full history, oldest first.
func SessionActionHistory(ctx context.Context, sessionID uuid.UUID) ([]SessionActionRecord, error) {
	if Rdb == nil {
		return nil, nil
	}

	entries, err := Rdb.XRange(ctx, sessionStreamKey(sessionID), "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("read action stream: %w", err)
	}
	return decodeActionEntries(entries), nil
}

// decodeActionEntries unpacks stream messages into records, skipping any
// entry that is missing the record field or fails to decode.
func decodeActionEntries(entries []redis.XMessage) []SessionActionRecord {
	records := make([]SessionActionRecord, 0, len(entries))
	for _, entry := range entries {
		raw, ok := entry.Values["record"].(string)
		if !ok {
			continue
		}
		var rec SessionActionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}
