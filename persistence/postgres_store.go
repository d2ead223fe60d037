package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"bomberman/server/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore handles database operations using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema initializes the database schema
func (dm *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		nickname TEXT UNIQUE NOT NULL,
		joins INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		last_seen TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS maps (
		id SERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		legend JSONB NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := dm.db.Exec(schema)
	return err
}

// SaveProfile upserts a player profile
func (dm *PostgresStore) SaveProfile(profile *models.PlayerProfile) error {
	query := `
	INSERT INTO profiles (id, nickname, joins, created_at, last_seen)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id)
	DO UPDATE SET
		nickname = $2, joins = $3, last_seen = $5
	`

	_, err := dm.db.Exec(query,
		profile.ID, profile.Nickname, profile.Joins, profile.CreatedAt, profile.LastSeen)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// LoadProfile loads a profile by ID
func (dm *PostgresStore) LoadProfile(playerID string) (*models.PlayerProfile, error) {
	return dm.loadProfile(`SELECT id, nickname, joins, created_at, last_seen FROM profiles WHERE id = $1`, playerID)
}

// LoadProfileByName loads a profile by nickname
func (dm *PostgresStore) LoadProfileByName(nickname string) (*models.PlayerProfile, error) {
	return dm.loadProfile(`SELECT id, nickname, joins, created_at, last_seen FROM profiles WHERE nickname = $1`, nickname)
}

func (dm *PostgresStore) loadProfile(query, key string) (*models.PlayerProfile, error) {
	var p models.PlayerProfile
	err := dm.db.QueryRow(query, key).Scan(&p.ID, &p.Nickname, &p.Joins, &p.CreatedAt, &p.LastSeen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

// SaveLayout upserts a map layout
func (dm *PostgresStore) SaveLayout(layout *models.MapLayout) error {
	legendJSON, err := json.Marshal(layout.Legend)
	if err != nil {
		return fmt.Errorf("failed to marshal map legend: %w", err)
	}
	dataJSON, err := json.Marshal(layout.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal map data: %w", err)
	}

	query := `
	INSERT INTO maps (name, width, height, legend, data)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (name)
	DO UPDATE SET
		width = $2, height = $3, legend = $4, data = $5,
		updated_at = NOW()
	`

	_, err = dm.db.Exec(query, layout.Name, layout.Width, layout.Height, string(legendJSON), string(dataJSON))
	if err != nil {
		return fmt.Errorf("failed to save map: %w", err)
	}
	return nil
}

// LoadLayout loads a map layout by name
func (dm *PostgresStore) LoadLayout(name string) (*models.MapLayout, error) {
	query := `SELECT width, height, legend, data FROM maps WHERE name = $1`

	layout := models.MapLayout{Name: name}
	var legendJSON, dataJSON string
	err := dm.db.QueryRow(query, name).Scan(&layout.Width, &layout.Height, &legendJSON, &dataJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("layout %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load map: %w", err)
	}

	if err := json.Unmarshal([]byte(legendJSON), &layout.Legend); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map legend: %w", err)
	}
	if err := json.Unmarshal([]byte(dataJSON), &layout.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map data: %w", err)
	}
	return &layout, nil
}

// Close closes the database connection
func (dm *PostgresStore) Close() error {
	log.Println("Closing database connection...")
	return dm.db.Close()
}
