package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xaenox/tube-agent/internal/models"
)

func TestParseViews(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.2M", 1_200_000},
		{"500K", 500_000},
		{"742", 742},
		{"3.4B", 3_400_000_000},
		{"2.5M views", 2_500_000},
		{"1,234", 1234},
		{"12k", 12_000},
		{"", 0},
		{"lots", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseViews(tt.in), 0.001)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1:02:03", 3723},
		{"12:34", 754},
		{"0:45", 45},
		{"abc", 0},
		{"12", 0},
		{"1:2:3:4", 0},
		{"1:xx", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.in))
		})
	}
}

func TestAgeHours(t *testing.T) {
	assert.Equal(t, 5, AgeHours("5 hours ago"))
	assert.Equal(t, 24, AgeHours("1 day ago"))
	assert.Equal(t, 336, AgeHours("2 weeks ago"))
	assert.Equal(t, 7920, AgeHours("11 months ago"))
	assert.Equal(t, 17520, AgeHours("2 years ago"))
	assert.Equal(t, 0, AgeHours("just now"))
}

func TestCompareAge(t *testing.T) {
	assert.Negative(t, CompareAge("1 day", "1 week"))
	assert.Positive(t, CompareAge("2 years", "11 months"))
	assert.Zero(t, CompareAge("7 days ago", "1 week ago"))
}

func TestParseSortKey(t *testing.T) {
	k, ok := ParseSortKey("")
	assert.True(t, ok)
	assert.Equal(t, models.SortByViews, k)

	k, ok = ParseSortKey("Duration")
	assert.True(t, ok)
	assert.Equal(t, models.SortByDuration, k)

	_, ok = ParseSortKey("rating")
	assert.False(t, ok)
}

func sample() []models.Video {
	return []models.Video{
		{ID: "a", Category: "Music", ViewCount: "1.2M", PublishedAt: "2 weeks ago", Duration: "3:30"},
		{ID: "b", Category: "Gaming", ViewCount: "500K", PublishedAt: "1 day ago", Duration: "1:02:03"},
		{ID: "c", Category: "Music", ViewCount: "500K", PublishedAt: "5 hours ago", Duration: "12:34"},
		{ID: "d", Category: "Science", ViewCount: "2M", PublishedAt: "1 year ago", Duration: "45:00"},
		{ID: "e", Category: "Music", ViewCount: "742", PublishedAt: "3 months ago", Duration: "bad"},
	}
}

func ids(videos []models.Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	videos := sample()

	assert.Equal(t, videos, Filter(videos, models.AllCategories))
	assert.Equal(t, []string{"a", "c", "e"}, ids(Filter(videos, "Music")))
	assert.Empty(t, Filter(videos, "Cooking"))
}

func TestSortByViewsIsStableAndNonIncreasing(t *testing.T) {
	sorted := Sort(sample(), models.SortByViews)

	assert.Equal(t, []string{"d", "a", "b", "c", "e"}, ids(sorted))
	for i := 1; i < len(sorted); i++ {
		assert.GreaterOrEqual(t, ParseViews(sorted[i-1].ViewCount), ParseViews(sorted[i].ViewCount))
	}
}

func TestSortByDate(t *testing.T) {
	assert.Equal(t, []string{"c", "b", "a", "e", "d"}, ids(Sort(sample(), models.SortByDate)))
}

func TestSortByDuration(t *testing.T) {
	assert.Equal(t, []string{"b", "d", "c", "a", "e"}, ids(Sort(sample(), models.SortByDuration)))
}

func TestSortDoesNotModifyInput(t *testing.T) {
	videos := sample()
	_ = Sort(videos, models.SortByDuration)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(videos))
}

func TestArrange(t *testing.T) {
	assert.Equal(t, []string{"a", "c", "e"}, ids(Arrange(sample(), "Music", models.SortByViews)))
	assert.Equal(t, []string{"c", "a", "e"}, ids(Arrange(sample(), "Music", models.SortByDate)))
}
