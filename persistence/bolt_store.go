package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"bomberman/server/models"
)

var (
	profilesBucket = []byte("profiles")
	nicknameBucket = []byte("nicknames")
	layoutsBucket  = []byte("layouts")
)

// BoltStore keeps profiles and layouts in a single bbolt file. Values are
// JSON documents; nicknames index profile IDs.
type BoltStore struct {
	database *bolt.DB
}

// NewBoltStore opens or creates the database file
func NewBoltStore(filename string) (*BoltStore, error) {
	db, err := bolt.Open(filename, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{profilesBucket, nicknameBucket, layoutsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}
	return &BoltStore{database: db}, nil
}

// SaveProfile saves the profile and re-indexes its nickname
func (bs *BoltStore) SaveProfile(profile *models.PlayerProfile) error {
	value, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return bs.database.Update(func(tx *bolt.Tx) error {
		profiles := tx.Bucket(profilesBucket)
		names := tx.Bucket(nicknameBucket)
		if old := profiles.Get([]byte(profile.ID)); old != nil {
			var prev models.PlayerProfile
			if err := json.Unmarshal(old, &prev); err == nil && prev.Nickname != profile.Nickname {
				if err := names.Delete([]byte(prev.Nickname)); err != nil {
					return err
				}
			}
		}
		if err := profiles.Put([]byte(profile.ID), value); err != nil {
			return err
		}
		return names.Put([]byte(profile.Nickname), []byte(profile.ID))
	})
}

// LoadProfile loads a profile by ID
func (bs *BoltStore) LoadProfile(playerID string) (*models.PlayerProfile, error) {
	var p *models.PlayerProfile
	err := bs.database.View(func(tx *bolt.Tx) error {
		var err error
		p, err = getProfile(tx, playerID)
		return err
	})
	return p, err
}

// LoadProfileByName loads a profile through the nickname index
func (bs *BoltStore) LoadProfileByName(nickname string) (*models.PlayerProfile, error) {
	var p *models.PlayerProfile
	err := bs.database.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(nicknameBucket).Get([]byte(nickname))
		if id == nil {
			return fmt.Errorf("profile %q: %w", nickname, ErrNotFound)
		}
		var err error
		p, err = getProfile(tx, string(id))
		return err
	})
	return p, err
}

func getProfile(tx *bolt.Tx, playerID string) (*models.PlayerProfile, error) {
	raw := tx.Bucket(profilesBucket).Get([]byte(playerID))
	if raw == nil {
		return nil, fmt.Errorf("profile %s: %w", playerID, ErrNotFound)
	}
	var p models.PlayerProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

// SaveLayout saves a map layout under its name
func (bs *BoltStore) SaveLayout(layout *models.MapLayout) error {
	value, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	return bs.database.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(layoutsBucket).Put([]byte(layout.Name), value)
	})
}

// LoadLayout loads a map layout by name
func (bs *BoltStore) LoadLayout(name string) (*models.MapLayout, error) {
	var layout models.MapLayout
	err := bs.database.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(layoutsBucket).Get([]byte(name))
		if raw == nil {
			return fmt.Errorf("layout %q: %w", name, ErrNotFound)
		}
		return json.Unmarshal(raw, &layout)
	})
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

// Close closes the database file
func (bs *BoltStore) Close() error {
	if bs.database == nil {
		return nil
	}
	return bs.database.Close()
}
