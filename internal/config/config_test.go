package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func validConfig() Config {
	var cfg Config
	cfg.App.Port = 38561
	cfg.Polling.IngestSeconds = 900
	cfg.Polling.EmailSeconds = 300
	cfg.Search.DebounceMS = 180
	return cfg
}

func TestLoad(t *testing.T) {
	t.Run("values and defaults", func(t *testing.T) {
		path := writeTempConfig(t, `
app:
  port: 40000
search:
  amenities:
    wifi: ["wifi", "wireless"]
  suggestion_templates:
    - "under 800 near campus"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 40000, cfg.App.Port)
		assert.Equal(t, 900, cfg.Polling.IngestSeconds) // default
		assert.Equal(t, 180, cfg.Search.DebounceMS)     // default
		assert.Equal(t, []string{"wifi", "wireless"}, cfg.Search.Amenities["wifi"])
		assert.Equal(t, []string{"under 800 near campus"}, cfg.Search.SuggestionTemplates)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("ROOMSCOUT_PORT", "41000")
		path := writeTempConfig(t, "app:\n  port: 40000\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 41000, cfg.App.Port)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})
}

func TestNormalizeAndValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		_, res := NormalizeAndValidate(validConfig())
		assert.True(t, res.OK())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Port = 0
		_, res := NormalizeAndValidate(cfg)
		assert.False(t, res.OK())
	})

	t.Run("negative debounce", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.DebounceMS = -1
		_, res := NormalizeAndValidate(cfg)
		assert.False(t, res.OK())
	})

	t.Run("sluggish debounce is only a warning", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.DebounceMS = 2000
		_, res := NormalizeAndValidate(cfg)
		assert.True(t, res.OK())
		assert.NotEmpty(t, res.Warnings)
	})

	t.Run("templates are trimmed and deduplicated", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.SuggestionTemplates = []string{" cheap hostel ", "cheap hostel", "", "Cheap Hostel"}
		out, res := NormalizeAndValidate(cfg)
		assert.True(t, res.OK())
		assert.Equal(t, []string{"cheap hostel"}, out.Search.SuggestionTemplates)
	})

	t.Run("email enabled requires connection fields", func(t *testing.T) {
		cfg := validConfig()
		cfg.Email.Enabled = true
		_, res := NormalizeAndValidate(cfg)
		assert.False(t, res.OK())

		cfg.Email.IMAPHost = "imap.example.com"
		cfg.Email.IMAPPort = 993
		cfg.Email.Username = "user@example.com"
		cfg.Email.Mailbox = "INBOX"
		_, res = NormalizeAndValidate(cfg)
		assert.True(t, res.OK())
	})

	t.Run("board without url is an error", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sources.Boards.Boards = []Board{{Name: "broken"}}
		_, res := NormalizeAndValidate(cfg)
		assert.False(t, res.OK())
	})
}

func TestSaveAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := validConfig()
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.App.Port, loaded.App.Port)

	t.Run("previous file becomes the backup", func(t *testing.T) {
		cfg.App.Port = 40001
		require.NoError(t, SaveAtomic(path, cfg))

		_, err := os.Stat(path + ".bak")
		assert.NoError(t, err)

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 40001, loaded.App.Port)
	})

	t.Run("invalid config is rejected before writing", func(t *testing.T) {
		bad := validConfig()
		bad.App.Port = -1
		other := filepath.Join(dir, "other.yml")
		assert.Error(t, SaveAtomic(other, bad))
		_, err := os.Stat(other)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestEnsureUserConfig(t *testing.T) {
	dataDir := t.TempDir()
	defaultPath := filepath.Join(t.TempDir(), "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  port: 38561\n"), 0o644))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	b, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "38561")

	// Second call keeps the existing user file.
	require.NoError(t, os.WriteFile(userPath, []byte("app:\n  port: 1\n"), 0o644))
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, userPath, again)
	b, _ = os.ReadFile(userPath)
	assert.Contains(t, string(b), "port: 1")
}

func TestOverlaySources(t *testing.T) {
	t.Run("replaces lists when present", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sources.Boards.Boards = []Board{{Name: "old", URL: "https://old"}}

		path := writeTempConfig(t, `
sources:
  boards:
    boards:
      - name: "new"
        url: "https://new"
`)
		require.NoError(t, OverlaySources(&cfg, path))
		require.Len(t, cfg.Sources.Boards.Boards, 1)
		assert.Equal(t, "new", cfg.Sources.Boards.Boards[0].Name)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, OverlaySources(&cfg, filepath.Join(t.TempDir(), "nope.yml")))
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		cfg := validConfig()
		path := writeTempConfig(t, ":\tnot yaml")
		assert.Error(t, OverlaySources(&cfg, path))
	})
}
