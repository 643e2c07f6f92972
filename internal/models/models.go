package models

import "time"

// Video is a catalog entry. Fields are kept in their human-readable form.
type Video struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	ChannelName string `json:"channel_name" yaml:"channel_name"`
	Duration    string `json:"duration" yaml:"duration"`
	ViewCount   string `json:"view_count" yaml:"view_count"`
	PublishedAt string `json:"published_at" yaml:"published_at"`
	Category    string `json:"category" yaml:"category"`
}

type Role string

const (
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

// AgentMessage is one turn of the conversation
type AgentMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Videos    []Video   `json:"videos,omitempty"`
}

// ConversationContext accumulates what happened during one session.
type ConversationContext struct {
	SearchHistory []string `json:"search_history"`
	WatchedVideos []string `json:"watched_videos"`
}

func (c *ConversationContext) AddSearch(query string) {
	c.SearchHistory = append(c.SearchHistory, query)
}

func (c *ConversationContext) AddWatched(videoID string) {
	c.WatchedVideos = append(c.WatchedVideos, videoID)
}

func (c ConversationContext) Clone() ConversationContext {
	return ConversationContext{
		SearchHistory: append([]string(nil), c.SearchHistory...),
		WatchedVideos: append([]string(nil), c.WatchedVideos...),
	}
}

// Tab identifies a navigation panel.
type Tab string

const (
	TabAgent     Tab = "agent"
	TabHome      Tab = "home"
	TabTrending  Tab = "trending"
	TabExplore   Tab = "explore"
	TabWatchlist Tab = "watchlist"
	TabPlaylists Tab = "playlists"
	TabHistory   Tab = "history"
	TabLiked     Tab = "liked"
)

var Tabs = []Tab{TabAgent, TabHome, TabTrending, TabExplore, TabWatchlist, TabPlaylists, TabHistory, TabLiked}

// ParseTab returns TabAgent for anything it does not recognize.
func ParseTab(s string) Tab {
	for _, t := range Tabs {
		if string(t) == s {
			return t
		}
	}
	return TabAgent
}

// IsGrid reports whether the tab shows the filterable video list.
func (t Tab) IsGrid() bool {
	return t == TabHome || t == TabTrending || t == TabExplore
}

// IsPlaceholder reports whether the tab is not implemented yet.
func (t Tab) IsPlaceholder() bool {
	return t == TabPlaylists || t == TabHistory || t == TabLiked
}

type SortKey string

const (
	SortByViews    SortKey = "views"
	SortByDate     SortKey = "date"
	SortByDuration SortKey = "duration"
)

const AllCategories = "All"

// Session is the complete state owned by one chat.
type Session struct {
	ChatID     int64
	Tab        Tab
	Category   string
	SortBy     SortKey
	Context    ConversationContext
	Watchlist  Watchlist
	Transcript Transcript
}

func NewSession(chatID int64) *Session {
	return &Session{
		ChatID:   chatID,
		Tab:      TabAgent,
		Category: AllCategories,
		SortBy:   SortByViews,
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Context = s.Context.Clone()
	c.Watchlist = Watchlist{items: s.Watchlist.Items()}
	c.Transcript = Transcript{messages: s.Transcript.Messages()}
	return &c
}
