// Package agent drives one conversation: it owns the turn sequence of the
// chat, the navigation panels and the watchlist operations, independent of
// the transport that displays them.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/tube-agent/internal/catalog"
	"github.com/xaenox/tube-agent/internal/interpreter"
	"github.com/xaenox/tube-agent/internal/models"
	"github.com/xaenox/tube-agent/internal/ranking"
	"github.com/xaenox/tube-agent/internal/storage"
)

type Service struct {
	storage     storage.Storage
	catalog     *catalog.Catalog
	interpreter interpreter.Interpreter
	latency     Latency
	logger      *zap.Logger

	now   func() time.Time
	newID func() string

	// turns holds one lock per chat so a chat's turns never interleave.
	mu    sync.Mutex
	turns map[int64]*sync.Mutex
}

func NewService(store storage.Storage, c *catalog.Catalog, interp interpreter.Interpreter, latency Latency, logger *zap.Logger) *Service {
	return &Service{
		storage:     store,
		catalog:     c,
		interpreter: interp,
		latency:     latency,
		logger:      logger,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
		turns:       make(map[int64]*sync.Mutex),
	}
}

// lockTurn blocks until the chat has no other turn in progress.
func (s *Service) lockTurn(chatID int64) func() {
	s.mu.Lock()
	l, ok := s.turns[chatID]
	if !ok {
		l = &sync.Mutex{}
		s.turns[chatID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Respond waits for delay and then interprets query against cc. It always
// returns exactly one agent message, even if ctx ends during the wait.
func (s *Service) Respond(ctx context.Context, query string, cc *models.ConversationContext, delay time.Duration) (models.AgentMessage, interpreter.Result) {
	wait(ctx, delay)

	result := s.interpreter.Interpret(query, cc)
	return models.AgentMessage{
		ID:        s.newID(),
		Role:      models.RoleAgent,
		Content:   result.Response,
		Timestamp: s.now(),
		Videos:    result.Videos,
	}, result
}

// Open starts a fresh session with the greeting and returns the agent panel.
func (s *Service) Open(ctx context.Context, chatID int64) (*View, error) {
	defer s.lockTurn(chatID)()

	if err := s.storage.ResetSession(ctx, chatID); err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	greeting := models.AgentMessage{
		ID:        s.newID(),
		Role:      models.RoleAgent,
		Content:   interpreter.Greeting(),
		Timestamp: s.now(),
	}
	if err := s.storage.AppendMessage(ctx, chatID, greeting); err != nil {
		return nil, fmt.Errorf("failed to save greeting: %w", err)
	}

	s.logger.Info("Session opened", zap.Int64("chat_id", chatID))
	return s.OpenTab(ctx, chatID, models.TabAgent)
}

// Ask records the user's query, waits the simulated latency and records and
// returns the agent's reply.
func (s *Service) Ask(ctx context.Context, chatID int64, query string) (*View, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	defer s.lockTurn(chatID)()

	userMsg := models.AgentMessage{
		ID:        s.newID(),
		Role:      models.RoleUser,
		Content:   query,
		Timestamp: s.now(),
	}
	if err := s.storage.AppendMessage(ctx, chatID, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	sess, err := s.storage.GetSession(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	reply, result := s.Respond(ctx, query, &sess.Context, s.latency.Next())

	// The wait may have outlived ctx; the reply is still recorded.
	saveCtx := context.WithoutCancel(ctx)
	if err := s.storage.AddSearch(saveCtx, chatID, query); err != nil {
		return nil, fmt.Errorf("failed to save search: %w", err)
	}
	if err := s.storage.AppendMessage(saveCtx, chatID, reply); err != nil {
		return nil, fmt.Errorf("failed to save agent message: %w", err)
	}

	s.logger.Info("Query interpreted",
		zap.Int64("chat_id", chatID),
		zap.String("intent", string(result.Intent)),
		zap.Int("videos", len(result.Videos)))

	if err := s.storage.SetTab(saveCtx, chatID, models.TabAgent); err != nil {
		return nil, fmt.Errorf("failed to switch tab: %w", err)
	}

	view := &View{
		Tab:    models.TabAgent,
		Text:   reply.Content,
		Videos: reply.Videos,
	}
	view.watchlist = sess.Watchlist
	return view, nil
}

// OpenTab switches the session to tab and renders it.
func (s *Service) OpenTab(ctx context.Context, chatID int64, tab models.Tab) (*View, error) {
	if err := s.storage.SetTab(ctx, chatID, tab); err != nil {
		return nil, fmt.Errorf("failed to switch tab: %w", err)
	}
	return s.Current(ctx, chatID)
}

// Current renders the session's active tab.
func (s *Service) Current(ctx context.Context, chatID int64) (*View, error) {
	sess, err := s.storage.GetSession(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return s.render(sess), nil
}

func (s *Service) SelectCategory(ctx context.Context, chatID int64, name string) (*View, error) {
	category, ok := s.catalog.HasCategory(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	if err := s.storage.SetCategory(ctx, chatID, category); err != nil {
		return nil, fmt.Errorf("failed to set category: %w", err)
	}
	return s.showGrid(ctx, chatID)
}

func (s *Service) SelectSort(ctx context.Context, chatID int64, name string) (*View, error) {
	key, ok := ranking.ParseSortKey(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSort, name)
	}
	if err := s.storage.SetSort(ctx, chatID, key); err != nil {
		return nil, fmt.Errorf("failed to set sort order: %w", err)
	}
	return s.showGrid(ctx, chatID)
}

// showGrid renders the current tab if it is a grid, otherwise home.
func (s *Service) showGrid(ctx context.Context, chatID int64) (*View, error) {
	sess, err := s.storage.GetSession(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !sess.Tab.IsGrid() {
		return s.OpenTab(ctx, chatID, models.TabHome)
	}
	return s.render(sess), nil
}

// ToggleWatchlist reports whether the video is in the watchlist afterwards.
func (s *Service) ToggleWatchlist(ctx context.Context, chatID int64, videoID string) (models.Video, bool, error) {
	video, ok := s.catalog.Video(videoID)
	if !ok {
		return models.Video{}, false, fmt.Errorf("%w: %q", ErrUnknownVideo, videoID)
	}
	added, err := s.storage.ToggleWatchlist(ctx, chatID, video)
	if err != nil {
		return models.Video{}, false, fmt.Errorf("failed to update watchlist: %w", err)
	}

	s.logger.Debug("Watchlist toggled",
		zap.Int64("chat_id", chatID),
		zap.String("video_id", videoID),
		zap.Bool("added", added))
	return video, added, nil
}

// RemoveFromWatchlist removes the video if present and returns the watchlist panel.
func (s *Service) RemoveFromWatchlist(ctx context.Context, chatID int64, videoID string) (*View, error) {
	if _, err := s.storage.RemoveFromWatchlist(ctx, chatID, videoID); err != nil {
		return nil, fmt.Errorf("failed to update watchlist: %w", err)
	}
	return s.OpenTab(ctx, chatID, models.TabWatchlist)
}

// Play records that the video was opened.
func (s *Service) Play(ctx context.Context, chatID int64, videoID string) (models.Video, error) {
	video, ok := s.catalog.Video(videoID)
	if !ok {
		return models.Video{}, fmt.Errorf("%w: %q", ErrUnknownVideo, videoID)
	}
	if err := s.storage.AddWatched(ctx, chatID, videoID); err != nil {
		return models.Video{}, fmt.Errorf("failed to record watched video: %w", err)
	}
	return video, nil
}

func (s *Service) render(sess *models.Session) *View {
	tab := sess.Tab
	view := &View{Tab: tab, Title: panelTitles[tab], watchlist: sess.Watchlist}

	switch {
	case tab.IsGrid():
		view.Categories = s.catalog.Categories()
		view.Category = sess.Category
		view.SortBy = sess.SortBy
		view.Videos = ranking.Arrange(s.catalog.Items, sess.Category, sess.SortBy)
		if len(view.Videos) == 0 {
			view.Text = emptyGridText
		} else {
			view.Subtitle = fmt.Sprintf("%s · %s", sess.Category, SortLabel(sess.SortBy))
		}

	case tab == models.TabWatchlist:
		view.Videos = sess.Watchlist.Items()
		if len(view.Videos) == 0 {
			view.Text = emptyWatchlistText
		} else {
			view.Subtitle = countLabel(len(view.Videos))
		}

	case tab.IsPlaceholder():
		view.Title = comingSoonTitle
		view.Text = comingSoonText
		view.Placeholder = true

	default:
		view.Tab = models.TabAgent
		view.Title = panelTitles[models.TabAgent]
		view.Subtitle = agentSubtitle
		if sess.Transcript.Len() <= 1 {
			view.Capabilities = s.catalog.Capabilities
			view.Suggestions = s.catalog.SuggestedQueries
		}
		msgs := sess.Transcript.Messages()
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role == models.RoleAgent {
				view.Text = msgs[i].Content
				view.Videos = msgs[i].Videos
				break
			}
		}
		if view.Text == "" {
			view.Text = interpreter.Greeting()
		}
	}
	return view
}

func countLabel(n int) string {
	if n == 1 {
		return "1 video"
	}
	return fmt.Sprintf("%d videos", n)
}
