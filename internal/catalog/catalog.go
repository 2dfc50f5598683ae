// Package catalog holds the read-only museum directory. A Catalog is built once
// at startup and shared by reference; nothing mutates it afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
)

var ErrNotFound = errors.New("museum not found")

//go:embed data/museums.yaml
var defaultCatalog []byte

type Exhibit struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"desc" json:"desc"`
	Image       string `yaml:"img" json:"img"`
}

type Museum struct {
	Key             string    `yaml:"key" json:"key"`
	Name            string    `yaml:"name" json:"name"`
	City            string    `yaml:"city" json:"city"`
	VisitorsPerYear int       `yaml:"visitors_per_year" json:"visitors_per_year"`
	WeekdayCharge   int       `yaml:"weekday_charge" json:"weekday_charge"`
	WeekendCharge   int       `yaml:"weekend_charge" json:"weekend_charge"`
	Hours           string    `yaml:"hours" json:"hours"`
	TopExhibits     []Exhibit `yaml:"top_exhibits" json:"top_exhibits"`
}

// GalleryImages returns the image URLs of the museum's top exhibits in order.
func (m Museum) GalleryImages() []string {
	imgs := make([]string, 0, len(m.TopExhibits))
	for _, e := range m.TopExhibits {
		if e.Image != "" {
			imgs = append(imgs, e.Image)
		}
	}
	return imgs
}

type file struct {
	Museums []Museum `yaml:"museums"`
}

// Catalog is an immutable, name-sorted set of museums addressed by key.
type Catalog struct {
	museums []Museum
	byKey   map[string]int
}

// New validates museums and builds a Catalog. Keys must be unique and every
// museum needs a key, a name and a city.
func New(museums []Museum) (*Catalog, error) {
	sorted := make([]Museum, len(museums))
	copy(sorted, museums)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	c := &Catalog{museums: sorted, byKey: make(map[string]int, len(sorted))}
	for i, m := range sorted {
		switch {
		case strings.TrimSpace(m.Key) == "":
			return nil, fmt.Errorf("museum %q has no key", m.Name)
		case strings.TrimSpace(m.Name) == "":
			return nil, fmt.Errorf("museum %q has no name", m.Key)
		case strings.TrimSpace(m.City) == "":
			return nil, fmt.Errorf("museum %q has no city", m.Key)
		}
		if _, dup := c.byKey[m.Key]; dup {
			return nil, fmt.Errorf("duplicate museum key %q", m.Key)
		}
		c.byKey[m.Key] = i
	}
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Museums)
}

// Load reads a YAML catalog from path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func (c *Catalog) Len() int { return len(c.museums) }

func (c *Catalog) Get(key string) (Museum, error) {
	i, ok := c.byKey[key]
	if !ok {
		return Museum{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return c.museums[i], nil
}

// All returns every museum sorted by name. The slice is a copy.
func (c *Catalog) All() []Museum {
	out := make([]Museum, len(c.museums))
	copy(out, c.museums)
	return out
}

// Search returns museums whose name or city contains query, compared
// case-insensitively, sorted by name. An empty query returns All().
func (c *Catalog) Search(query string) []Museum {
	if query == "" {
		return c.All()
	}

	fold := cases.Fold()
	q := fold.String(query)

	out := make([]Museum, 0)
	for _, m := range c.museums {
		if strings.Contains(fold.String(m.Name), q) || strings.Contains(fold.String(m.City), q) {
			out = append(out, m)
		}
	}
	return out
}
