package config

// Config holds all configuration for the application.
type Config struct {
	DBName       string
	Port         string
	Turso        TursoConfig
	Slack        SlackConfig
	ProjectID    string
	NatsURL      string
	SnapshotDir  string
	AllowOrigins []string
	Team         TeamConfig
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// TeamConfig is read from the optional YAML team file.
type TeamConfig struct {
	Name       string `yaml:"name"`
	FormWindow int    `yaml:"form_window"`
}
