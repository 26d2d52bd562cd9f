package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coverage-bot/internal/dialog"
	"coverage-bot/pkg/redis"
)

// Storage keeps one dialog session per chat as JSON under "state:<chatID>".
type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps a connected client. A zero ttl means sessions never expire.
func New(client *redis.Client, ttl time.Duration) *Storage {
	return &Storage{client: client, ttl: ttl}
}

// Get returns a fresh session for chats without a stored one.
func (s *Storage) Get(ctx context.Context, chatID int64) (dialog.Session, error) {
	var sess dialog.Session
	err := s.client.LoadJSON(ctx, buildStateKey(chatID), &sess)
	if errors.Is(err, redis.ErrNotFound) {
		return dialog.Fresh(), nil
	}
	if err != nil {
		return dialog.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *Storage) Save(ctx context.Context, chatID int64, sess dialog.Session) error {
	if err := s.client.SaveJSON(ctx, buildStateKey(chatID), sess, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Storage) Drop(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, buildStateKey(chatID))
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func buildStateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}
