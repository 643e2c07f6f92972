package storage

import (
	"context"

	"github.com/xaenox/tube-agent/internal/models"
)

// Storage owns the per-chat sessions. Every method is atomic for its chat.
type Storage interface {
	// GetSession returns a snapshot copy, creating the session when needed.
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	ResetSession(ctx context.Context, chatID int64) error

	AppendMessage(ctx context.Context, chatID int64, msg models.AgentMessage) error
	AddSearch(ctx context.Context, chatID int64, query string) error
	AddWatched(ctx context.Context, chatID int64, videoID string) error

	WatchlistStorage

	SetTab(ctx context.Context, chatID int64, tab models.Tab) error
	SetCategory(ctx context.Context, chatID int64, category string) error
	SetSort(ctx context.Context, chatID int64, key models.SortKey) error

	Close() error
}

type WatchlistStorage interface {
	// ToggleWatchlist reports whether the video is in the watchlist afterwards.
	ToggleWatchlist(ctx context.Context, chatID int64, video models.Video) (bool, error)
	// RemoveFromWatchlist reports whether anything was removed.
	RemoveFromWatchlist(ctx context.Context, chatID int64, videoID string) (bool, error)
}
