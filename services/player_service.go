package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bomberman/server/models"
	"bomberman/server/persistence"
)

var (
	// ErrInvalidNickname is returned for empty nicknames
	ErrInvalidNickname = errors.New("nickname must not be empty")
	// ErrNicknameTaken is returned when a connected player already uses the nickname
	ErrNicknameTaken = errors.New("nickname already in use")
	// ErrPlayerNotFound is returned for players that are not logged in
	ErrPlayerNotFound = errors.New("player not found")
)

// PlayerService manages logged in players and their stored profiles
type PlayerService struct {
	online map[string]*models.PlayerProfile
	db     persistence.Storage
	mutex  sync.RWMutex
}

// NewPlayerService creates a new player service
func NewPlayerService(db persistence.Storage) *PlayerService {
	return &PlayerService{
		online: make(map[string]*models.PlayerProfile),
		db:     db,
	}
}

// Login loads the profile for nickname, creating it on first login, and
// marks it online
func (ps *PlayerService) Login(nickname string) (*models.PlayerProfile, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, ErrInvalidNickname
	}

	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for _, p := range ps.online {
		if p.Nickname == nickname {
			return nil, fmt.Errorf("%w: %s", ErrNicknameTaken, nickname)
		}
	}

	now := time.Now()
	profile, err := ps.db.LoadProfileByName(nickname)
	if errors.Is(err, persistence.ErrNotFound) {
		profile = &models.PlayerProfile{
			ID:        uuid.NewString(),
			Nickname:  nickname,
			CreatedAt: now,
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	profile.LastSeen = now

	if err := ps.db.SaveProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	ps.online[profile.ID] = profile
	return profile, nil
}

// Logout marks the player offline
func (ps *PlayerService) Logout(playerID string) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()
	delete(ps.online, playerID)
}

// RecordJoin counts an arena join on the player's profile
func (ps *PlayerService) RecordJoin(playerID string) error {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	p, ok := ps.online[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	p.Joins++
	p.LastSeen = time.Now()
	if err := ps.db.SaveProfile(p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetPlayer retrieves an online player by ID
func (ps *PlayerService) GetPlayer(playerID string) (*models.PlayerProfile, error) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	p, ok := ps.online[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// Online reports the number of logged in players
func (ps *PlayerService) Online() int {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()
	return len(ps.online)
}
