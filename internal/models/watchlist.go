package models

// Watchlist is an ordered set of videos keyed by video ID.
type Watchlist struct {
	items []Video
}

func (w *Watchlist) index(videoID string) int {
	for i, v := range w.items {
		if v.ID == videoID {
			return i
		}
	}
	return -1
}

func (w *Watchlist) Contains(videoID string) bool {
	return w.index(videoID) >= 0
}

// Toggle adds the video when absent and removes it when present.
// It reports whether the video is in the watchlist afterwards.
func (w *Watchlist) Toggle(video Video) bool {
	if w.Remove(video.ID) {
		return false
	}
	w.items = append(w.items, video)
	return true
}

// Remove deletes the video with the given ID. Removing an absent ID is a no-op.
func (w *Watchlist) Remove(videoID string) bool {
	i := w.index(videoID)
	if i < 0 {
		return false
	}
	w.items = append(w.items[:i:i], w.items[i+1:]...)
	return true
}

func (w *Watchlist) Items() []Video {
	return append([]Video(nil), w.items...)
}

func (w *Watchlist) Len() int {
	return len(w.items)
}

// Transcript is the append-only list of conversation turns.
type Transcript struct {
	messages []AgentMessage
}

func (t *Transcript) Append(msg AgentMessage) {
	t.messages = append(t.messages, msg)
}

func (t *Transcript) Messages() []AgentMessage {
	return append([]AgentMessage(nil), t.messages...)
}

func (t *Transcript) Len() int {
	return len(t.messages)
}
