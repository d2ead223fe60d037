package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"bomberman/server/models"
)

// JSONStore handles data persistence using a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Profiles map[string]*models.PlayerProfile `json:"profiles"`
	Layouts  map[string]*models.MapLayout     `json:"layouts"`
}

// NewJSONStore creates a new JSON storage manager
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Profiles: make(map[string]*models.PlayerProfile),
			Layouts:  make(map[string]*models.MapLayout),
		},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

// loadFromFile loads data from the JSON file
func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Profiles == nil {
		js.data.Profiles = make(map[string]*models.PlayerProfile)
	}
	if js.data.Layouts == nil {
		js.data.Layouts = make(map[string]*models.MapLayout)
	}
	return nil
}

// saveToFile saves data to the JSON file
func (js *JSONStore) saveToFile() error {
	js.mutex.RLock()
	data, err := json.MarshalIndent(js.data, "", "  ")
	js.mutex.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(js.filePath, data, 0644)
}

// SaveProfile saves a copy of the profile
func (js *JSONStore) SaveProfile(profile *models.PlayerProfile) error {
	cp := *profile
	js.mutex.Lock()
	js.data.Profiles[profile.ID] = &cp
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadProfile loads a profile by ID
func (js *JSONStore) LoadProfile(playerID string) (*models.PlayerProfile, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	p, exists := js.data.Profiles[playerID]
	if !exists {
		return nil, fmt.Errorf("profile %s: %w", playerID, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// LoadProfileByName loads a profile by nickname
func (js *JSONStore) LoadProfileByName(nickname string) (*models.PlayerProfile, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	for _, p := range js.data.Profiles {
		if p.Nickname == nickname {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("profile %q: %w", nickname, ErrNotFound)
}

// SaveLayout saves a map layout under its name
func (js *JSONStore) SaveLayout(layout *models.MapLayout) error {
	js.mutex.Lock()
	js.data.Layouts[layout.Name] = layout.Clone()
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadLayout loads a map layout by name
func (js *JSONStore) LoadLayout(name string) (*models.MapLayout, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	layout, exists := js.data.Layouts[name]
	if !exists {
		return nil, fmt.Errorf("layout %q: %w", name, ErrNotFound)
	}
	return layout.Clone(), nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
