package storage

import (
	"context"
	"sync"

	"github.com/xaenox/tube-agent/internal/models"
)

// MemoryStorage keeps sessions for the lifetime of the process only.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*models.Session
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[int64]*models.Session),
	}
}

// session must be called with mu held for writing.
func (s *MemoryStorage) session(chatID int64) *models.Session {
	sess, exists := s.sessions[chatID]
	if !exists {
		sess = models.NewSession(chatID)
		s.sessions[chatID] = sess
	}
	return sess
}

func (s *MemoryStorage) update(ctx context.Context, chatID int64, fn func(*models.Session)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.session(chatID))
	return nil
}

func (s *MemoryStorage) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	sess, exists := s.sessions[chatID]
	if exists {
		defer s.mu.RUnlock()
		return sess.Clone(), nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session(chatID).Clone(), nil
}

func (s *MemoryStorage) ResetSession(ctx context.Context, chatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[chatID] = models.NewSession(chatID)
	return nil
}

func (s *MemoryStorage) AppendMessage(ctx context.Context, chatID int64, msg models.AgentMessage) error {
	return s.update(ctx, chatID, func(sess *models.Session) {
		sess.Transcript.Append(msg)
	})
}

func (s *MemoryStorage) AddSearch(ctx context.Context, chatID int64, query string) error {
	return s.update(ctx, chatID, func(sess *models.Session) {
		sess.Context.AddSearch(query)
	})
}

func (s *MemoryStorage) AddWatched(ctx context.Context, chatID int64, videoID string) error {
	return s.update(ctx, chatID, func(sess *models.Session) {
		sess.Context.AddWatched(videoID)
	})
}

func (s *MemoryStorage) ToggleWatchlist(ctx context.Context, chatID int64, video models.Video) (bool, error) {
	var added bool
	err := s.update(ctx, chatID, func(sess *models.Session) {
		added = sess.Watchlist.Toggle(video)
	})
	return added, err
}

func (s *MemoryStorage) RemoveFromWatchlist(ctx context.Context, chatID int64, videoID string) (bool, error) {
	var removed bool
	err := s.update(ctx, chatID, func(sess *models.Session) {
		removed = sess.Watchlist.Remove(videoID)
	})
	return removed, err
}

func (s *MemoryStorage) SetTab(ctx context.Context, chatID int64, tab models.Tab) error {
	return s.update(ctx, chatID, func(sess *models.Session) {
		sess.Tab = tab
	})
}

func (s *MemoryStorage) SetCategory(ctx context.Context, chatID int64, category string) error {
	return s.update(ctx, chatID, func(sess *models.Session) {
		sess.Category = category
	})
}

func (s *MemoryStorage) SetSort(ctx context.Context, chatID int64, key models.SortKey) error {
	return s.update(ctx, chatID, func(sess *models.Session) {
		sess.SortBy = key
	})
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
