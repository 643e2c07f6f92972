// Package interpreter classifies a free-text query with ordered keyword rules
// and picks a response and matching videos from the catalog.
package interpreter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xaenox/tube-agent/internal/catalog"
	"github.com/xaenox/tube-agent/internal/models"
	"github.com/xaenox/tube-agent/internal/ranking"
)

type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentCapabilities   Intent = "capabilities"
	IntentTrending       Intent = "trending"
	IntentCategory       Intent = "category"
	IntentSearch         Intent = "search"
	IntentRecommendation Intent = "recommendation"
	IntentDefault        Intent = "default"
)

// Result is the outcome of interpreting one query. Response is never empty.
type Result struct {
	Intent   Intent
	Response string
	Videos   []models.Video
}

type Interpreter interface {
	Interpret(query string, cc *models.ConversationContext) Result
}

// KeywordInterpreter evaluates the rules in order; the first match wins.
type KeywordInterpreter struct {
	catalog    *catalog.Catalog
	maxResults int
}

func NewKeywordInterpreter(c *catalog.Catalog, maxResults int) *KeywordInterpreter {
	return &KeywordInterpreter{
		catalog:    c,
		maxResults: maxResults,
	}
}

func (k *KeywordInterpreter) Interpret(query string, cc *models.ConversationContext) Result {
	query = strings.TrimSpace(query)
	if query != "" && cc != nil {
		cc.AddSearch(query)
	}

	q := newQuery(query)
	if len(q.tokens) == 0 {
		return defaultResult()
	}

	switch {
	case q.isGreeting():
		return Result{Intent: IntentGreeting, Response: greetingReply}
	case q.isCapabilityQuestion():
		return Result{Intent: IntentCapabilities, Response: capabilitiesReply(k.catalog.Capabilities)}
	}

	category, hasCategory := k.mentionedCategory(q)

	if q.hasAny(trendingWords) || q.hasPhrase("most viewed") {
		if hasCategory {
			return Result{
				Intent:   IntentTrending,
				Response: fmt.Sprintf("Here's what's trending in %s right now 🔥", category),
				Videos:   k.limit(ranking.Arrange(k.catalog.Items, category, models.SortByViews)),
			}
		}
		return Result{
			Intent:   IntentTrending,
			Response: trendingReply,
			Videos:   k.catalog.Trending(k.maxResults),
		}
	}

	if hasCategory {
		videos := k.limit(ranking.Filter(k.catalog.Items, category))
		if len(videos) == 0 {
			return Result{
				Intent:   IntentCategory,
				Response: fmt.Sprintf("I couldn't find any %s videos right now. Try another category?", category),
			}
		}
		return Result{
			Intent:   IntentCategory,
			Response: fmt.Sprintf("Here are some great %s videos for you:", category),
			Videos:   videos,
		}
	}

	if terms := q.searchTerms(); len(terms) > 0 {
		if videos := k.search(terms); len(videos) > 0 {
			return Result{
				Intent:   IntentSearch,
				Response: searchReply(len(videos), terms),
				Videos:   videos,
			}
		}
	}

	if q.hasAny(recommendWords) || q.hasPhrase("what should i watch") || q.hasPhrase("something to watch") {
		return Result{
			Intent:   IntentRecommendation,
			Response: recommendationReply,
			Videos:   k.recommend(),
		}
	}

	return defaultResult()
}

func defaultResult() Result {
	return Result{Intent: IntentDefault, Response: defaultReply}
}

// mentionedCategory finds the first catalog category named in the query,
// either literally or through a synonym.
func (k *KeywordInterpreter) mentionedCategory(q parsedQuery) (string, bool) {
	for _, name := range k.catalog.CategoryNames {
		if name == models.AllCategories {
			continue
		}
		if q.hasPhrase(strings.ToLower(name)) || q.hasAny(categorySynonyms[name]) {
			return name, true
		}
	}
	return "", false
}

// search matches whole words of the title, channel and category.
func (k *KeywordInterpreter) search(terms []string) []models.Video {
	var out []models.Video
	for _, v := range k.catalog.Items {
		words := newQuery(v.Title + " " + v.ChannelName + " " + v.Category)
		if words.hasAny(terms) {
			out = append(out, v)
		}
	}
	return k.limit(out)
}

// recommend picks the most viewed video of each category, in category order.
func (k *KeywordInterpreter) recommend() []models.Video {
	byViews := ranking.Sort(k.catalog.Items, models.SortByViews)
	var out []models.Video
	for _, name := range k.catalog.CategoryNames {
		for _, v := range byViews {
			if v.Category == name {
				out = append(out, v)
				break
			}
		}
	}
	return k.limit(out)
}

func (k *KeywordInterpreter) limit(videos []models.Video) []models.Video {
	if k.maxResults > 0 && len(videos) > k.maxResults {
		return videos[:k.maxResults]
	}
	return videos
}

type parsedQuery struct {
	text   string
	tokens []string
	set    map[string]struct{}
}

func newQuery(s string) parsedQuery {
	text := strings.ToLower(s)
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for i, t := range tokens {
		tokens[i] = strings.Trim(t, "'")
	}

	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return parsedQuery{
		text:   " " + strings.Join(tokens, " ") + " ",
		tokens: tokens,
		set:    set,
	}
}

func (q parsedQuery) has(word string) bool {
	_, ok := q.set[word]
	return ok
}

func (q parsedQuery) hasAny(words []string) bool {
	for _, w := range words {
		if q.has(w) {
			return true
		}
	}
	return false
}

// hasPhrase matches whole words, so "hi" does not match "this".
func (q parsedQuery) hasPhrase(phrase string) bool {
	return strings.Contains(q.text, " "+phrase+" ")
}

func (q parsedQuery) isGreeting() bool {
	if !q.hasAny(greetingWords) && !q.hasPhrase("good morning") && !q.hasPhrase("good afternoon") && !q.hasPhrase("good evening") {
		return false
	}
	for _, t := range q.tokens {
		if _, ok := greetingFiller[t]; !ok {
			return false
		}
	}
	return true
}

func (q parsedQuery) isCapabilityQuestion() bool {
	for _, p := range capabilityPhrases {
		if q.hasPhrase(p) {
			return true
		}
	}
	if strings.Contains(q.text, "capabilit") {
		return true
	}
	return q.has("help") && len(q.searchTerms()) == 0
}

// searchTerms drops stopwords and very short tokens.
func (q parsedQuery) searchTerms() []string {
	var terms []string
	seen := make(map[string]struct{})
	for _, t := range q.tokens {
		if len(t) < 3 {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}
	return terms
}
