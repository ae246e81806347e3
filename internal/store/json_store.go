package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mj1618/weel/internal/model"
)

// FileName is the profile file inside the data directory.
const FileName = "weel-profiles.json"

const (
	defaultRows = 3
	defaultCols = 5
)

// data represents the JSON file structure.
type data struct {
	Profiles         []model.Profile `json:"profiles"`
	CurrentProfileID string          `json:"currentProfileId"`
}

// JSONStore implements ProfileStore using a single JSON file.
type JSONStore struct {
	mu       sync.RWMutex
	path     string
	data     *data
	modified bool
}

// NewJSONStore opens the store in dir, creating it with one empty 3x5
// profile on first use.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &JSONStore{
		path: filepath.Join(dir, FileName),
		data: &data{Profiles: []model.Profile{}},
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := s.load(); err != nil {
			return nil, err
		}
		return s, nil
	}

	p := model.NewProfile("Default", defaultRows, defaultCols)
	s.data.Profiles = append(s.data.Profiles, p)
	s.data.CurrentProfileID = p.ID
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) load() error {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, s.data); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	if s.normalize() {
		return s.save()
	}
	return nil
}

// save writes through a temp file so a crash never leaves half a file.
func (s *JSONStore) save() error {
	content, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.modified = false
	return nil
}

// Close persists any pending changes.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modified {
		return s.save()
	}
	return nil
}

func (s *JSONStore) ListProfiles(_ context.Context) ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Profile, len(s.data.Profiles))
	for i, p := range s.data.Profiles {
		result[i] = p.Clone()
	}
	return result, nil
}

func (s *JSONStore) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		p := s.data.Profiles[i].Clone()
		return &p, nil
	}
	return nil, ErrNotFound
}

func (s *JSONStore) CreateProfile(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(p.ID) >= 0 {
		return ErrAlreadyExists
	}
	normalizeProfile(p)
	s.data.Profiles = append(s.data.Profiles, p.Clone())
	if s.data.CurrentProfileID == "" {
		s.data.CurrentProfileID = p.ID
	}
	s.modified = true
	return s.save()
}

func (s *JSONStore) UpdateProfile(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(p.ID)
	if i < 0 {
		return ErrNotFound
	}
	normalizeProfile(p)
	s.data.Profiles[i] = p.Clone()
	s.modified = true
	return s.save()
}

// DeleteProfile removes a profile. Deleting the active profile makes the
// first remaining profile active.
func (s *JSONStore) DeleteProfile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	if len(s.data.Profiles) == 1 {
		return ErrLastProfile
	}
	s.data.Profiles = append(s.data.Profiles[:i], s.data.Profiles[i+1:]...)
	if s.data.CurrentProfileID == id {
		s.data.CurrentProfileID = s.data.Profiles[0].ID
	}
	s.modified = true
	return s.save()
}

// CurrentProfileID falls back to the first profile when the stored id is
// unset or stale.
func (s *JSONStore) CurrentProfileID(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index(s.data.CurrentProfileID) >= 0 {
		return s.data.CurrentProfileID, nil
	}
	if len(s.data.Profiles) > 0 {
		return s.data.Profiles[0].ID, nil
	}
	return "", ErrNotFound
}

func (s *JSONStore) SetCurrentProfileID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(id) < 0 {
		return ErrNotFound
	}
	if s.data.CurrentProfileID == id {
		return nil
	}
	s.data.CurrentProfileID = id
	s.modified = true
	return s.save()
}

func (s *JSONStore) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.data.Profiles {
		if s.data.Profiles[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *JSONStore) normalize() bool {
	changed := false
	for i := range s.data.Profiles {
		if normalizeProfile(&s.data.Profiles[i]) {
			changed = true
		}
	}
	return changed
}

// normalizeProfile fills in what older files leave out: grid size, page
// bookkeeping and a button slot for every grid cell.
func normalizeProfile(p *model.Profile) bool {
	if p == nil {
		return false
	}
	changed := false
	if p.GridSize.Rows <= 0 || p.GridSize.Cols <= 0 {
		p.GridSize = model.GridSize{Rows: defaultRows, Cols: defaultCols}
		changed = true
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
		changed = true
	}
	if p.TotalPages < p.CurrentPage {
		p.TotalPages = p.CurrentPage
		changed = true
	}
	if cells := p.GridSize.Cells(); len(p.Buttons) < cells {
		p.Buttons = append(p.Buttons, make([]*model.ButtonConfig, cells-len(p.Buttons))...)
		changed = true
	}
	if p.Pages == nil {
		p.Pages = make(map[int][]*model.ButtonConfig)
		changed = true
	}
	if _, ok := p.Pages[p.CurrentPage]; !ok {
		p.Pages[p.CurrentPage] = p.Buttons
		changed = true
	}
	return changed
}
