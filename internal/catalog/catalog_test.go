package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/tube-agent/internal/models"
	"github.com/xaenox/tube-agent/internal/ranking"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	require.NotEmpty(t, c.Videos())
	assert.Equal(t, models.AllCategories, c.Categories()[0])
	assert.NotEmpty(t, c.SuggestedQueries)
	assert.NotEmpty(t, c.Capabilities)

	for _, v := range c.Videos() {
		got, ok := c.Video(v.ID)
		require.True(t, ok, v.ID)
		assert.Equal(t, v, got)
		assert.NotZero(t, ranking.ParseDuration(v.Duration), v.ID)
		assert.NotZero(t, ranking.ParseViews(v.ViewCount), v.ID)
		assert.NotZero(t, ranking.AgeHours(v.PublishedAt), v.ID)
	}
}

func TestHasCategory(t *testing.T) {
	c := Default()

	name, ok := c.HasCategory("  gaming ")
	assert.True(t, ok)
	assert.Equal(t, "Gaming", name)

	_, ok = c.HasCategory("Knitting")
	assert.False(t, ok)
}

func TestTrending(t *testing.T) {
	c := Default()

	top := c.Trending(3)
	require.Len(t, top, 3)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, ranking.ParseViews(top[i-1].ViewCount), ranking.ParseViews(top[i].ViewCount))
	}
	assert.Len(t, c.Trending(0), len(c.Videos()))
}

func TestParseRejectsBrokenCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", "categories: [All]\n", "no videos"},
		{"duplicate", "categories: [Music]\nvideos:\n  - {id: a, category: Music}\n  - {id: a, category: Music}\n", "duplicate video id"},
		{"undeclared category", "categories: [Music]\nvideos:\n  - {id: a, category: Cooking}\n", "undeclared category"},
		{"missing id", "categories: [Music]\nvideos:\n  - {title: x, category: Music}\n", "has no id"},
		{"bad yaml", "videos: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParsePrependsAll(t *testing.T) {
	c, err := Parse([]byte("categories: [Music]\nvideos:\n  - {id: a, category: Music}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Music"}, c.Categories())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [News]\nvideos:\n  - {id: n1, title: Headlines, category: News}\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	v, ok := c.Video("n1")
	assert.True(t, ok)
	assert.Equal(t, "Headlines", v.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read catalog file")
}
