package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"bomberman/server/config"
	"bomberman/server/game"
	"bomberman/server/handlers"
	"bomberman/server/models"
	"bomberman/server/network"
	"bomberman/server/persistence"
	"bomberman/server/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin during development
		return true
	},
}

func openStorage(cfg config.Config) (persistence.Storage, error) {
	switch cfg.DBType {
	case "postgres":
		log.Println("Using PostgreSQL persistence")
		return persistence.NewPostgresStore(cfg.DatabaseURL)
	case "bolt":
		log.Printf("Using bolt persistence at %s", cfg.BoltFile)
		return persistence.NewBoltStore(cfg.BoltFile)
	default:
		log.Printf("Using JSON persistence at %s", cfg.DBFile)
		return persistence.NewJSONStore(cfg.DBFile)
	}
}

// loadLayout reads the configured map, seeding the built-in one on first run
func loadLayout(db persistence.Storage, name string) (*models.MapLayout, error) {
	layout, err := db.LoadLayout(name)
	if err == nil {
		return layout, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) || name != models.DefaultMapName {
		return nil, err
	}
	layout = models.DefaultMapLayout()
	if err := db.SaveLayout(layout); err != nil {
		return nil, err
	}
	log.Printf("Seeded map %q", name)
	return layout, nil
}

func main() {
	cfg := config.Load()

	db, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer db.Close()

	layout, err := loadLayout(db, cfg.MapName)
	if err != nil {
		log.Fatalf("Failed to load map %q: %v", cfg.MapName, err)
	}
	level, err := game.NewLevel(layout, cfg.LevelOptions()...)
	if err != nil {
		log.Fatalf("Invalid map %q: %v", cfg.MapName, err)
	}
	keymap, err := config.LoadKeymapFile(cfg.KeymapFile)
	if err != nil {
		log.Fatalf("Failed to load keymap: %v", err)
	}
	total, _ := level.SpawnSlots()
	log.Printf("Loaded map %q: %dx%d, %d spawns", layout.Name, layout.Width, layout.Height, total)

	arena := services.NewArenaService(level, keymap, cfg.TickRate, cfg.QueueSize)
	playerService := services.NewPlayerService(db)
	clientManager := handlers.NewClientManager()
	arena.OnTick(clientManager.BroadcastTick)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		codec, err := network.CodecByName(r.URL.Query().Get("codec"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()

		handlers.HandleClientConnection(conn, codec, playerService, arena, clientManager)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go arena.Run(ctx)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
