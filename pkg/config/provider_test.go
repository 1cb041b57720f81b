package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIProvider_Load(t *testing.T) {
	t.Run("Should map CLI flags to configuration structure", func(t *testing.T) {
		provider := NewCLIProvider(map[string]any{
			"base-url":  "https://cli.example.com",
			"format":    "json",
			"log-level": "debug",
			"log-json":  true,
			"unrelated": "ignored",
		})

		data, err := provider.Load()

		require.NoError(t, err)
		api, ok := data["api"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "https://cli.example.com", api["base_url"])
		cli, ok := data["cli"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json", cli["default_format"])
		runtime, ok := data["runtime"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "debug", runtime["log_level"])
		assert.Equal(t, true, runtime["log_json"])
		assert.NotContains(t, data, "unrelated")
	})

	t.Run("Should handle nil flags gracefully", func(t *testing.T) {
		data, err := NewCLIProvider(nil).Load()

		require.NoError(t, err)
		require.NotNil(t, data)
		assert.Empty(t, data)
	})

	t.Run("Should map every declared flag onto a config path", func(t *testing.T) {
		mappings := GenerateEnvToConfigMap()
		paths := make(map[string]bool, len(mappings))
		for _, path := range mappings {
			paths[path] = true
		}
		for flag, path := range FlagPaths {
			assert.True(t, paths[path], "flag %s points at unknown path %s", flag, path)
		}
	})
}

func TestYAMLProvider_Load(t *testing.T) {
	t.Run("Should return empty map for non-existent file", func(t *testing.T) {
		data, err := NewYAMLProvider("/non/existent/config.yaml").Load()

		assert.NoError(t, err)
		assert.NotNil(t, data)
		assert.Empty(t, data)
	})

	t.Run("Should read nested values and drop nulls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taskforge.yaml")
		content := "api:\n  base_url: https://yaml.example.com\n  user_agent: ~\ncli:\n  default_format: tui\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		data, err := NewYAMLProvider(path).Load()

		require.NoError(t, err)
		api, ok := data["api"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "https://yaml.example.com", api["base_url"])
		assert.NotContains(t, api, "user_agent")
	})

	t.Run("Should fail on malformed YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))

		_, err := NewYAMLProvider(path).Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML file")
	})

	t.Run("Should keep defaults for keys the file omits", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taskforge.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cli:\n  default_format: json\n"), 0o600))

		cfg, err := NewService().Load(t.Context(), NewYAMLProvider(path))

		require.NoError(t, err)
		assert.Equal(t, FormatJSON, cfg.CLI.DefaultFormat)
		assert.True(t, cfg.CLI.Interactive)
		assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	})
}

func TestCLIProvider_Sections(t *testing.T) {
	t.Run("Should merge flags that share a section", func(t *testing.T) {
		data, err := NewCLIProvider(map[string]any{
			"base-url": "https://example.com",
			"timeout":  "5s",
			"session":  "/tmp/session.json",
		}).Load()

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"api":     map[string]any{"base_url": "https://example.com", "timeout": "5s"},
			"session": map[string]any{"path": "/tmp/session.json"},
		}, data)
	})

	t.Run("Should report the cli source type", func(t *testing.T) {
		assert.Equal(t, SourceCLI, NewCLIProvider(nil).Type())
	})
}
