package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTeamName   = "Kaulille"
	defaultFormWindow = 5
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Slack: SlackConfig{
			Token:     os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		ProjectID:    os.Getenv("GCP_PROJECT"),
		NatsURL:      os.Getenv("NATS_URL"),
		SnapshotDir:  os.Getenv("SNAPSHOT_DIR"),
		AllowOrigins: splitList(os.Getenv("ALLOW_ORIGINS")),
	}

	team, err := LoadTeam(os.Getenv("TEAM_FILE"))
	if err != nil {
		log.Fatalf("Failed to load team file: %s", err)
	}
	cfg.Team = team
	return cfg
}

// LoadTeam reads the team file at path. An empty path yields the defaults.
func LoadTeam(path string) (TeamConfig, error) {
	team := TeamConfig{Name: defaultTeamName, FormWindow: defaultFormWindow}
	if path == "" {
		return team, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return team, fmt.Errorf("failed to read team file: %w", err)
	}
	if err := yaml.Unmarshal(data, &team); err != nil {
		return team, fmt.Errorf("failed to parse team file: %w", err)
	}
	if team.Name == "" {
		team.Name = defaultTeamName
	}
	if team.FormWindow <= 0 {
		team.FormWindow = defaultFormWindow
	}
	return team, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
