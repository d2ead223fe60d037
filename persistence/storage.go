package persistence

import (
	"errors"

	"bomberman/server/models"
)

// ErrNotFound is returned when a profile or layout does not exist
var ErrNotFound = errors.New("not found")

// Storage defines the interface for data persistence
type Storage interface {
	SaveProfile(profile *models.PlayerProfile) error
	LoadProfile(playerID string) (*models.PlayerProfile, error)
	LoadProfileByName(nickname string) (*models.PlayerProfile, error)
	SaveLayout(layout *models.MapLayout) error
	LoadLayout(name string) (*models.MapLayout, error)
	Close() error
}
