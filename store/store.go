// Package store persists view definitions as YAML files.
//
// Each view is stored as <id>.yaml in a single directory. The store works
// on any afero filesystem, so tests and previews can run in memory.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/vegasq/listview/view"
)

// ErrNotFound is returned when no view has the requested ID
var ErrNotFound = errors.New("view not found")

const fileExt = ".yaml"

// validID keeps IDs usable as file names
var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Store is a directory of view definition files
type Store struct {
	mu  sync.RWMutex
	fs  afero.Fs
	dir string
}

// New returns a store keeping its views in dir on fs
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// NewOS returns a store backed by the operating system filesystem
func NewOS(dir string) *Store {
	return New(afero.NewOsFs(), dir)
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

// List returns every stored view ordered by name, then ID
func (s *Store) List() ([]view.ViewDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	views := make([]view.ViewDefinition, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		def, err := LoadFile(s.fs, filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if def.ID == "" {
			def.ID = strings.TrimSuffix(entry.Name(), fileExt)
		}
		views = append(views, def)
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Name != views[j].Name {
			return views[i].Name < views[j].Name
		}
		return views[i].ID < views[j].ID
	})
	return views, nil
}

// Get returns the view with the given ID
func (s *Store) Get(id string) (view.ViewDefinition, error) {
	if !validID.MatchString(id) {
		return view.ViewDefinition{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	def, err := LoadFile(s.fs, s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return view.ViewDefinition{}, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return view.ViewDefinition{}, err
	}
	// Hand-written files may omit the id; the file name is the id
	if def.ID == "" {
		def.ID = id
	}
	return def, nil
}

// Save validates def and writes it, assigning a new ID to unsaved views.
// It returns the definition as stored.
func (s *Store) Save(def view.ViewDefinition) (view.ViewDefinition, error) {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	if !validID.MatchString(def.ID) {
		return view.ViewDefinition{}, fmt.Errorf("%w: id %q may only contain letters, digits, '-' and '_'", view.ErrInvalidView, def.ID)
	}
	if err := def.Validate(); err != nil {
		return view.ViewDefinition{}, err
	}

	data, err := yaml.Marshal(def)
	if err != nil {
		return view.ViewDefinition{}, fmt.Errorf("failed to encode view: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return view.ViewDefinition{}, fmt.Errorf("failed to create views directory: %w", err)
	}

	// Write then rename so readers never see a partial file
	tmp := s.path(def.ID) + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return view.ViewDefinition{}, fmt.Errorf("failed to write view: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path(def.ID)); err != nil {
		_ = s.fs.Remove(tmp)
		return view.ViewDefinition{}, fmt.Errorf("failed to write view: %w", err)
	}
	return def, nil
}

// Delete removes the view with the given ID
func (s *Store) Delete(id string) error {
	if !validID.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete view: %w", err)
	}
	return nil
}

// LoadFile reads a view definition from a YAML or JSON file
func LoadFile(fs afero.Fs, name string) (view.ViewDefinition, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return view.ViewDefinition{}, fmt.Errorf("failed to read view: %w", err)
	}

	var def view.ViewDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return view.ViewDefinition{}, fmt.Errorf("failed to parse view %s: %w", name, err)
	}
	return def, nil
}
