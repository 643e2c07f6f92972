// Package ranking turns the human-readable fields of a video into comparable
// numbers and applies the category filter and sort order of a video list.
package ranking

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/xaenox/tube-agent/internal/models"
)

// Hours per unit. Months and years are fixed approximations (30 and 365 days).
var timeUnits = map[string]int{
	"hour":  1,
	"day":   24,
	"week":  168,
	"month": 720,
	"year":  8760,
}

var agePattern = regexp.MustCompile(`(\d+)\s*(hour|day|week|month|year)`)

// ParseViews converts counts such as "1.2M", "500K" or "742" to a number.
// Unparseable input yields 0.
func ParseViews(viewCount string) float64 {
	s := strings.TrimSpace(strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(viewCount)), "VIEWS"))
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' {
			return r
		}
		return -1
	}, s)

	num, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}

	switch {
	case strings.HasSuffix(s, "B"):
		return num * 1e9
	case strings.HasSuffix(s, "M"):
		return num * 1e6
	case strings.HasSuffix(s, "K"):
		return num * 1e3
	}
	return num
}

// AgeHours converts "3 days ago" style text to hours. Text without a
// recognizable number and unit yields 0.
func AgeHours(publishedAt string) int {
	match := agePattern.FindStringSubmatch(strings.ToLower(publishedAt))
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n * timeUnits[match[2]]
}

// CompareAge orders a before b when a is more recent.
func CompareAge(a, b string) int {
	return cmp.Compare(AgeHours(a), AgeHours(b))
}

// ParseDuration converts "MM:SS" or "H:MM:SS" to seconds. Anything else is 0.
func ParseDuration(duration string) int {
	parts := strings.Split(strings.TrimSpace(duration), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// ParseSortKey accepts views, date and duration. The empty string selects views.
func ParseSortKey(s string) (models.SortKey, bool) {
	switch models.SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", models.SortByViews:
		return models.SortByViews, true
	case models.SortByDate:
		return models.SortByDate, true
	case models.SortByDuration:
		return models.SortByDuration, true
	}
	return "", false
}

// Filter keeps the videos of one category. "All" keeps everything.
// The input is never modified and order is preserved.
func Filter(videos []models.Video, category string) []models.Video {
	if category == "" || category == models.AllCategories {
		return slices.Clone(videos)
	}
	out := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out
}

// Sort returns a stably sorted copy of videos.
func Sort(videos []models.Video, key models.SortKey) []models.Video {
	out := slices.Clone(videos)
	switch key {
	case models.SortByDate:
		slices.SortStableFunc(out, func(a, b models.Video) int {
			return CompareAge(a.PublishedAt, b.PublishedAt)
		})
	case models.SortByDuration:
		slices.SortStableFunc(out, func(a, b models.Video) int {
			return cmp.Compare(ParseDuration(b.Duration), ParseDuration(a.Duration))
		})
	default:
		slices.SortStableFunc(out, func(a, b models.Video) int {
			return cmp.Compare(ParseViews(b.ViewCount), ParseViews(a.ViewCount))
		})
	}
	return out
}

// Arrange filters first and then sorts.
func Arrange(videos []models.Video, category string, key models.SortKey) []models.Video {
	return Sort(Filter(videos, category), key)
}
