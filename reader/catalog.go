package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vegasq/listview/view"
)

// ErrUnknownList is returned when a view references a list the catalog does not describe
var ErrUnknownList = errors.New("unknown list")

// defaultIDColumn is used when a list does not name its item ID column
const defaultIDColumn = "ID"

// Lookup declares that a column of a list references items of another list
type Lookup struct {
	Column       string `yaml:"column" json:"column"`
	TargetListID string `yaml:"targetListId" json:"targetListId"`
}

// ListSource describes where the rows of one list are stored
type ListSource struct {
	SiteID string `yaml:"siteId" json:"siteId"`
	ListID string `yaml:"listId" json:"listId"`
	Name   string `yaml:"name" json:"name"`

	// Path is a parquet file or glob pattern, relative to the catalog file
	Path         string            `yaml:"path" json:"path"`
	IDColumn     string            `yaml:"idColumn,omitempty" json:"idColumn,omitempty"`
	Lookups      []Lookup          `yaml:"lookups,omitempty" json:"lookups,omitempty"`
	DisplayNames map[string]string `yaml:"displayNames,omitempty" json:"displayNames,omitempty"`
}

func (s ListSource) idColumn() string {
	if s.IDColumn == "" {
		return defaultIDColumn
	}
	return s.IDColumn
}

func (s ListSource) displayName(column string) string {
	if name, ok := s.DisplayNames[column]; ok && name != "" {
		return name
	}
	return column
}

// Catalog is the set of lists available to views
type Catalog struct {
	Lists []ListSource `yaml:"lists" json:"lists"`
}

// LoadCatalog reads a YAML catalog. Relative list paths are resolved
// against the catalog's directory.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range cat.Lists {
		if !filepath.IsAbs(cat.Lists[i].Path) {
			cat.Lists[i].Path = filepath.Join(dir, cat.Lists[i].Path)
		}
	}
	return cat, nil
}

// ParseCatalog decodes and checks a YAML catalog document
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(cat.Lists))
	for i, l := range cat.Lists {
		if l.SiteID == "" || l.ListID == "" {
			return nil, fmt.Errorf("catalog list %d: siteId and listId are required", i)
		}
		if l.Path == "" {
			return nil, fmt.Errorf("catalog list %s/%s: path is required", l.SiteID, l.ListID)
		}
		key := l.SiteID + "/" + l.ListID
		if seen[key] {
			return nil, fmt.Errorf("catalog list %s: duplicate entry", key)
		}
		seen[key] = true
	}
	return &cat, nil
}

// Find returns the list identified by siteID and listID
func (c *Catalog) Find(siteID, listID string) (ListSource, error) {
	for _, l := range c.Lists {
		if l.SiteID == siteID && l.ListID == listID {
			return l, nil
		}
	}
	return ListSource{}, fmt.Errorf("%w: %s/%s", ErrUnknownList, siteID, listID)
}

// Sources returns every catalog list as a view source, in catalog order
func (c *Catalog) Sources() []view.Source {
	sources := make([]view.Source, len(c.Lists))
	for i, l := range c.Lists {
		sources[i] = view.Source{SiteID: l.SiteID, ListID: l.ListID, ListName: l.Name}
	}
	return sources
}
