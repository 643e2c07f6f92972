package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/tube-agent/internal/models"
)

var _ Storage = (*MemoryStorage)(nil)

func TestGetSessionCreatesDefaults(t *testing.T) {
	s := NewMemoryStorage()
	sess, err := s.GetSession(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), sess.ChatID)
	assert.Equal(t, models.TabAgent, sess.Tab)
	assert.Equal(t, models.AllCategories, sess.Category)
	assert.Equal(t, models.SortByViews, sess.SortBy)
	assert.Zero(t, sess.Transcript.Len())
}

func TestGetSessionReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	snap, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	snap.Watchlist.Toggle(models.Video{ID: "x"})

	fresh, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, fresh.Watchlist.Len())
}

func TestWatchlistToggleAndRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	v := models.Video{ID: "v1"}

	added, err := s.ToggleWatchlist(ctx, 1, v)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.ToggleWatchlist(ctx, 1, v)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = s.ToggleWatchlist(ctx, 1, v)
	require.NoError(t, err)

	removed, err := s.RemoveFromWatchlist(ctx, 1, "absent")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = s.RemoveFromWatchlist(ctx, 1, "v1")
	require.NoError(t, err)
	assert.True(t, removed)

	other, err := s.GetSession(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, other.Watchlist.Len(), "sessions are isolated per chat")
}

func TestResetSession(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.AppendMessage(ctx, 1, models.AgentMessage{ID: "m"}))
	require.NoError(t, s.AddSearch(ctx, 1, "cats"))
	require.NoError(t, s.SetTab(ctx, 1, models.TabExplore))
	require.NoError(t, s.ResetSession(ctx, 1))

	sess, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, sess.Transcript.Len())
	assert.Empty(t, sess.Context.SearchHistory)
	assert.Equal(t, models.TabAgent, sess.Tab)
}

func TestSettersAndContext(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.SetTab(ctx, 1, models.TabTrending))
	require.NoError(t, s.SetCategory(ctx, 1, "Music"))
	require.NoError(t, s.SetSort(ctx, 1, models.SortByDate))
	require.NoError(t, s.AddSearch(ctx, 1, "lofi"))
	require.NoError(t, s.AddWatched(ctx, 1, "v9"))

	sess, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TabTrending, sess.Tab)
	assert.Equal(t, "Music", sess.Category)
	assert.Equal(t, models.SortByDate, sess.SortBy)
	assert.Equal(t, []string{"lofi"}, sess.Context.SearchHistory)
	assert.Equal(t, []string{"v9"}, sess.Context.WatchedVideos)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStorage()

	_, err := s.GetSession(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.AddSearch(ctx, 1, "x"), context.Canceled)
}

func TestConcurrentAppendsKeepEveryMessage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.AppendMessage(ctx, 1, models.AgentMessage{ID: fmt.Sprint(i)})
			_, _ = s.ToggleWatchlist(ctx, 1, models.Video{ID: fmt.Sprint(i % 5)})
		}(i)
	}
	wg.Wait()

	sess, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, sess.Transcript.Len())

	seen := map[string]bool{}
	for _, v := range sess.Watchlist.Items() {
		assert.False(t, seen[v.ID])
		seen[v.ID] = true
	}
}
