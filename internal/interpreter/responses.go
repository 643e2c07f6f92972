package interpreter

import (
	"fmt"
	"strings"

	"github.com/xaenox/tube-agent/internal/catalog"
)

const (
	greetingMessage = "👋 Hi! I'm your YouTube Agent. I can search for videos, show you what's trending, " +
		"recommend something to watch and keep a watch-later list for you.\n\nWhat would you like to watch today?"

	greetingReply       = "Hello! 👋 Tell me what you're in the mood for. Try \"show me trending videos\" or \"find cooking videos\"."
	trendingReply       = "Here's what's trending right now 🔥"
	recommendationReply = "Based on what's popular across categories, here are some picks you might enjoy:"
	defaultReply        = "I can help you find videos! Try asking me to show trending videos, search for a topic " +
		"like \"pizza\" or \"space\", or browse a category such as Gaming or Music."
)

// Greeting is the first agent message of every session.
func Greeting() string {
	return greetingMessage
}

// DefaultReply is what the agent says when no rule matches.
func DefaultReply() string {
	return defaultReply
}

func capabilitiesReply(caps []catalog.Capability) string {
	if len(caps) == 0 {
		return defaultReply
	}
	var b strings.Builder
	b.WriteString("Here's what I can do:\n")
	for _, c := range caps {
		fmt.Fprintf(&b, "\n%s %s - %s", c.Icon, c.Title, c.Description)
	}
	b.WriteString("\n\nJust ask in your own words.")
	return b.String()
}

func searchReply(n int, terms []string) string {
	noun := "videos"
	if n == 1 {
		noun = "video"
	}
	return fmt.Sprintf("I found %d %s matching \"%s\":", n, noun, strings.Join(terms, " "))
}

var (
	greetingWords = []string{"hi", "hello", "hey", "hiya", "howdy", "greetings", "yo"}

	// Words allowed next to a greeting word without turning it into a request.
	greetingFiller = setOf(
		"hi", "hello", "hey", "hiya", "howdy", "greetings", "yo",
		"there", "agent", "bot", "friend", "good", "morning", "afternoon", "evening",
	)

	capabilityPhrases = []string{
		"what can you do", "what do you do", "how do you work", "what are you", "who are you",
		"how can you help", "what can i ask",
	}

	trendingWords  = []string{"trending", "trend", "popular", "viral", "top", "hot"}
	recommendWords = []string{"recommend", "recommendation", "recommendations", "suggest", "suggestion", "suggestions", "surprise", "bored"}

	// Keyed by catalog category name.
	categorySynonyms = map[string][]string{
		"Technology":    {"tech", "coding", "code", "programming", "software", "gadget", "gadgets", "computer", "computers"},
		"Gaming":        {"game", "games", "gamer", "gameplay", "videogame", "videogames", "speedrun"},
		"Music":         {"song", "songs", "beats", "lofi", "relax", "relaxing", "chill", "playlist"},
		"Education":     {"educational", "learn", "learning", "study", "studying", "lesson", "lessons", "history"},
		"Entertainment": {"comedy", "funny", "fun", "laugh", "movies"},
		"Sports":        {"sport", "football", "soccer", "fitness", "running", "workout", "highlights"},
		"Science":       {"scientific", "space", "physics", "astronomy", "documentary", "documentaries", "quantum"},
		"Cooking":       {"cook", "recipe", "recipes", "food", "meal", "meals", "baking", "kitchen"},
		"Travel":        {"trip", "trips", "vacation", "traveling", "travelling", "destinations"},
		"News":          {"headlines", "breaking"},
	}

	stopwords = setOf(
		"the", "and", "for", "with", "about", "some", "any", "show", "find", "search", "get", "give",
		"want", "watch", "see", "videos", "video", "clips", "please", "can", "you", "could", "would",
		"like", "looking", "look", "me", "what", "what's", "whats", "are", "there", "new", "good",
		"best", "help", "something", "anything", "really", "let", "let's", "need", "into", "from",
		"how", "this", "that", "all", "one", "more",
	)
)

func setOf(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
