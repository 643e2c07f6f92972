package agent

import (
	"github.com/xaenox/tube-agent/internal/catalog"
	"github.com/xaenox/tube-agent/internal/models"
)

// View is everything a transport needs to draw one panel or one reply.
type View struct {
	Tab          models.Tab
	Title        string
	Subtitle     string
	Text         string
	Videos       []models.Video
	Suggestions  []string
	Capabilities []catalog.Capability

	// Grid state; empty outside home, trending and explore.
	Categories []string
	Category   string
	SortBy     models.SortKey

	Placeholder bool

	watchlist models.Watchlist
}

func (v *View) InWatchlist(videoID string) bool {
	return v.watchlist.Contains(videoID)
}

var panelTitles = map[models.Tab]string{
	models.TabAgent:     "YouTube Agent",
	models.TabHome:      "Recommended for You",
	models.TabTrending:  "🔥 Trending Now",
	models.TabExplore:   "🧭 Explore",
	models.TabWatchlist: "🕒 Watch Later",
}

var sortLabels = map[models.SortKey]string{
	models.SortByViews:    "Most Views",
	models.SortByDate:     "Most Recent",
	models.SortByDuration: "Duration",
}

func SortLabel(key models.SortKey) string {
	if l, ok := sortLabels[key]; ok {
		return l
	}
	return sortLabels[models.SortByViews]
}

const (
	agentSubtitle      = "AI-powered video discovery assistant"
	emptyGridText      = "No videos found in this category"
	emptyWatchlistText = "Your watchlist is empty\n\nVideos you add to your watchlist will appear here. " +
		"Use the AI Agent to discover and add videos!"
	comingSoonTitle = "🚧 Coming Soon"
	comingSoonText  = "This feature is under development. Try the AI Agent to discover amazing videos!"
)
