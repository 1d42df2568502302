package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SourcesFile mirrors the sources section so large board/feed lists can
// live in their own file next to the main config.
type SourcesFile struct {
	Sources struct {
		Boards struct {
			Boards []Board `yaml:"boards"`
		} `yaml:"boards"`
		Feeds struct {
			Feeds []Feed `yaml:"feeds"`
		} `yaml:"feeds"`
	} `yaml:"sources"`
}

// OverlaySources replaces the configured source lists with those from
// sourcesPath, when the file exists. A missing file is not an error.
func OverlaySources(cfg *Config, sourcesPath string) error {
	b, err := os.ReadFile(sourcesPath)
	if err != nil {
		return nil
	}

	var sf SourcesFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return err
	}

	if len(sf.Sources.Boards.Boards) > 0 {
		cfg.Sources.Boards.Boards = sf.Sources.Boards.Boards
	}
	if len(sf.Sources.Feeds.Feeds) > 0 {
		cfg.Sources.Feeds.Feeds = sf.Sources.Feeds.Feeds
	}
	return nil
}
