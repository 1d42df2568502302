package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

type Board struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

type Feed struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port" env:"ROOMSCOUT_PORT" env-default:"38561"`
		DataDir string `yaml:"data_dir" json:"data_dir" env:"ROOMSCOUT_DATA_DIR" env-default:"."`
	} `yaml:"app" json:"app"`

	Polling struct {
		IngestSeconds int `yaml:"ingest_seconds" json:"ingest_seconds" env-default:"900"`
		EmailSeconds  int `yaml:"email_seconds" json:"email_seconds" env-default:"300"`
	} `yaml:"polling" json:"polling"`

	Search struct {
		DebounceMS int `yaml:"debounce_ms" json:"debounce_ms" env-default:"180"`
		// Amenity thesaurus: canonical key -> synonym phrases. Empty means
		// the built-in defaults.
		Amenities           map[string][]string `yaml:"amenities" json:"amenities"`
		SuggestionTemplates []string            `yaml:"suggestion_templates" json:"suggestion_templates"`
	} `yaml:"search" json:"search"`

	Sources struct {
		Boards struct {
			Enabled bool    `yaml:"enabled" json:"enabled"`
			Boards  []Board `yaml:"boards" json:"boards"`
		} `yaml:"boards" json:"boards"`
		Feeds struct {
			Enabled bool   `yaml:"enabled" json:"enabled"`
			Feeds   []Feed `yaml:"feeds" json:"feeds"`
		} `yaml:"feeds" json:"feeds"`
	} `yaml:"sources" json:"sources"`

	Email struct {
		Enabled          bool     `yaml:"enabled" json:"enabled"`
		IMAPHost         string   `yaml:"imap_host" json:"imap_host"`
		IMAPPort         int      `yaml:"imap_port" json:"imap_port"`
		Username         string   `yaml:"username" json:"username"`
		Mailbox          string   `yaml:"mailbox" json:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any" json:"search_subject_any"`
	} `yaml:"email" json:"email"`
}

// Load reads the YAML config at path with env overrides and defaults.
func Load(path string) (Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(path, &cfg)
	return cfg, err
}
