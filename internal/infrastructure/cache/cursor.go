package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

// CursorTTL bounds how long a device's pull cursor is remembered. A device
// silent for longer simply does a full pull again.
const CursorTTL = 30 * 24 * time.Hour

// CursorStore keeps per-engineer pull cursors in Redis so every server
// instance observes the same sync state, instead of process memory.
type CursorStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewCursorStore connects to Redis at uri. An empty uri disables the store:
// the returned *CursorStore is nil and safe to pass around.
func NewCursorStore(uri string, log *slog.Logger) (*CursorStore, error) {
	if uri == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis uri: %w", err)
	}

	return &CursorStore{
		client: redis.NewClient(opts),
		log:    log.With("component", "cursor_store"),
	}, nil
}

func cursorKey(engineerID int) string {
	return fmt.Sprintf("sync:cursor:%d", engineerID)
}

func (s *CursorStore) SetCursor(ctx context.Context, engineerID int, at time.Time) error {
	if s == nil {
		return nil
	}
	if err := s.client.Set(ctx, cursorKey(engineerID), at.UTC().Format(time.RFC3339Nano), CursorTTL).Err(); err != nil {
		return fmt.Errorf("set cursor: %w", err)
	}
	return nil
}

func (s *CursorStore) GetCursor(ctx context.Context, engineerID int) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}

	val, err := s.client.Get(ctx, cursorKey(engineerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cursor: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		s.log.Warn("malformed cursor value, dropping", "engineer_id", engineerID, "value", val)
		return nil, nil
	}
	return &at, nil
}

func (s *CursorStore) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
