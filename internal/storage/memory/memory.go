// Package memory keeps dialog sessions in process memory. Sessions are lost on restart.
package memory

import (
	"context"
	"sync"

	"coverage-bot/internal/dialog"
)

type Storage struct {
	mu       sync.RWMutex
	sessions map[int64]dialog.Session
}

func New() *Storage {
	return &Storage{sessions: make(map[int64]dialog.Session)}
}

func (s *Storage) Get(_ context.Context, chatID int64) (dialog.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return dialog.Fresh(), nil
	}
	return sess.Clone(), nil
}

func (s *Storage) Save(_ context.Context, chatID int64, sess dialog.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[chatID] = sess.Clone()
	return nil
}

func (s *Storage) Drop(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

func (s *Storage) Ping(context.Context) error {
	return nil
}
