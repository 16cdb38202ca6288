package main

import (
	"context"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/database"
	"github.com/bsluismans-tech/FootballTracker/internal/games"
	"github.com/bsluismans-tech/FootballTracker/internal/ids"
	"github.com/bsluismans-tech/FootballTracker/internal/roster"
	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

var playerNames = []string{"Lotte", "Mats", "Noor", "Vic", "Jens", "Lena", "Rune", "Fien", "Seppe", "Ines"}

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"TURSO_PRIMARY_URL": os.Getenv("TURSO_PRIMARY_URL"),
		"TURSO_AUTH_TOKEN":  os.Getenv("TURSO_AUTH_TOKEN"),
		"SEED_GAMES":        "20",
	}
	if value, ok := os.LookupEnv("SEED_GAMES"); ok {
		config["SEED_GAMES"] = value
	}
	required := []string{"DB_NAME"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	numGames, err := strconv.Atoi(cfg["SEED_GAMES"])
	if err != nil || numGames < 0 {
		log.Fatalf("Invalid SEED_GAMES value %q", cfg["SEED_GAMES"])
	}

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	clock := clockwork.NewRealClock()
	rosterStore := roster.New(db, ids.New(clock))
	driver := "sqlite3"
	if cfg["TURSO_PRIMARY_URL"] != "" {
		driver = "libsql"
	}
	gameStore := games.New(sqlx.NewDb(db, driver), clock)

	var players []roster.Player
	var parents []roster.Parent
	for _, name := range playerNames {
		p, err := roster.NewPlayer(name)
		if err != nil {
			log.Fatalf("Invalid seed player %q: %s", name, err)
		}
		if p, err = rosterStore.AddPlayer(p); err != nil {
			log.Fatalf("Failed to insert player %s: %s", name, err)
		}
		players = append(players, p)

		parent, _ := roster.NewParent("Parent of "+name, p.ID)
		if parent, err = rosterStore.AddParent(parent); err != nil {
			log.Fatalf("Failed to insert parent for %s: %s", name, err)
		}
		parents = append(parents, parent)
	}
	log.Info("Inserted players and parents", "players", len(players), "parents", len(parents))

	startTime := time.Now()
	rng := rand.New(rand.NewPCG(uint64(startTime.UnixNano()), 42))
	first := clock.Now().AddDate(0, 0, -7*numGames)
	ctx := context.Background()
	for i, g := range seedGames(rng, players, parents, numGames, first) {
		if err := gameStore.Create(ctx, &g); err != nil {
			log.Fatalf("Failed to insert game: %s", err)
		}
		if (i+1)%10 == 0 {
			log.Info("Inserted games", "completed", i+1, "total", numGames)
		}
	}

	log.Info("Successfully inserted all seeded games.", "games", numGames, "duration", time.Since(startTime))
}
