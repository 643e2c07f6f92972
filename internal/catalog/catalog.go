// Package catalog holds the fixed video collection the agent searches.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xaenox/tube-agent/internal/models"
	"github.com/xaenox/tube-agent/internal/ranking"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrEmptyCatalog = errors.New("catalog has no videos")

// Capability is a feature card shown when a conversation opens.
type Capability struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Catalog struct {
	CategoryNames    []string       `yaml:"categories"`
	Items            []models.Video `yaml:"videos"`
	SuggestedQueries []string       `yaml:"suggested_queries"`
	Capabilities     []Capability   `yaml:"capabilities"`

	byID map[string]int
}

// Load reads a catalog from path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
		}
	}
	return Parse(data)
}

// Default returns the built-in catalog. It panics if the embedded data is broken.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) init() error {
	if len(c.Items) == 0 {
		return ErrEmptyCatalog
	}

	if len(c.CategoryNames) == 0 || c.CategoryNames[0] != models.AllCategories {
		c.CategoryNames = append([]string{models.AllCategories}, c.CategoryNames...)
	}
	declared := make(map[string]struct{}, len(c.CategoryNames))
	for _, name := range c.CategoryNames {
		declared[name] = struct{}{}
	}

	c.byID = make(map[string]int, len(c.Items))
	for i, v := range c.Items {
		if v.ID == "" {
			return fmt.Errorf("video %d (%q) has no id", i, v.Title)
		}
		if _, dup := c.byID[v.ID]; dup {
			return fmt.Errorf("duplicate video id %q", v.ID)
		}
		if _, ok := declared[v.Category]; !ok {
			return fmt.Errorf("video %q uses undeclared category %q", v.ID, v.Category)
		}
		c.byID[v.ID] = i
	}
	return nil
}

// Videos returns a copy of every video in catalog order.
func (c *Catalog) Videos() []models.Video {
	return append([]models.Video(nil), c.Items...)
}

// Categories returns the category names, "All" first.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.CategoryNames...)
}

func (c *Catalog) Video(id string) (models.Video, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Video{}, false
	}
	return c.Items[i], true
}

// HasCategory matches name case-insensitively and returns the canonical spelling.
func (c *Catalog) HasCategory(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, cat := range c.CategoryNames {
		if strings.EqualFold(cat, name) {
			return cat, true
		}
	}
	return "", false
}

// Trending returns the most viewed videos, at most limit of them (all when limit <= 0).
func (c *Catalog) Trending(limit int) []models.Video {
	videos := ranking.Sort(c.Items, models.SortByViews)
	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}
	return videos
}
