package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	loadErr    error
	sourceType SourceType
}

func (m *mockSource) Load() (map[string]any, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data, nil
}

func (m *mockSource) Type() SourceType {
	return m.sourceType
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should load default configuration when no sources provided", func(t *testing.T) {
		cfg, err := NewService().Load(t.Context())

		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
		assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	})

	t.Run("Should apply sources in precedence order", func(t *testing.T) {
		yamlSource := &mockSource{
			data: map[string]any{
				"api": map[string]any{
					"base_url": "https://yaml.example.com",
					"timeout":  "5s",
				},
			},
			sourceType: SourceYAML,
		}
		cliSource := &mockSource{
			data: map[string]any{
				"api": map[string]any{
					"base_url": "https://cli.example.com",
				},
			},
			sourceType: SourceCLI,
		}

		cfg, err := NewService().Load(t.Context(), cliSource, yamlSource)

		require.NoError(t, err)
		assert.Equal(t, "https://cli.example.com", cfg.API.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	})

	t.Run("Should let environment override YAML but not flags", func(t *testing.T) {
		t.Setenv("TASKFORGE_API_BASE_URL", "https://env.example.com")
		t.Setenv("TASKFORGE_LOG_LEVEL", "debug")
		t.Setenv("TASKFORGE_LOG_JSON", "true")
		yamlSource := &mockSource{
			data:       map[string]any{"runtime": map[string]any{"log_level": "warn"}},
			sourceType: SourceYAML,
		}
		cliSource := &mockSource{
			data:       map[string]any{"api": map[string]any{"base_url": "https://flag.example.com"}},
			sourceType: SourceCLI,
		}

		cfg, err := NewService().Load(t.Context(), yamlSource, cliSource)

		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.com", cfg.API.BaseURL)
		assert.Equal(t, "debug", cfg.Runtime.LogLevel)
		assert.True(t, cfg.Runtime.LogJSON)
	})

	t.Run("Should decode sensitive values from the environment", func(t *testing.T) {
		t.Setenv("TASKFORGE_AUTH_EMAIL", "ada@example.com")
		t.Setenv("TASKFORGE_AUTH_PASSWORD", "hunter2")

		cfg, err := NewService().Load(t.Context())

		require.NoError(t, err)
		assert.Equal(t, "hunter2", cfg.Auth.Password.Value())
		assert.Equal(t, "[REDACTED]", cfg.Auth.Password.String())
	})

	t.Run("Should ignore unrelated environment variables", func(t *testing.T) {
		t.Setenv("TASKFORGE_UNKNOWN_SETTING", "x")
		t.Setenv("API_BASE_URL", "https://ignored.example.com")

		cfg, err := NewService().Load(t.Context())

		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	})

	t.Run("Should validate configuration after loading", func(t *testing.T) {
		source := &mockSource{
			data:       map[string]any{"cli": map[string]any{"default_format": "xml"}},
			sourceType: SourceYAML,
		}

		cfg, err := NewService().Load(t.Context(), source)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
		assert.Nil(t, cfg)
	})

	t.Run("Should handle nil sources gracefully", func(t *testing.T) {
		source := &mockSource{
			data:       map[string]any{"session": map[string]any{"path": "/tmp/session.json"}},
			sourceType: SourceCLI,
		}

		cfg, err := NewService().Load(t.Context(), nil, source, nil)

		require.NoError(t, err)
		assert.Equal(t, "/tmp/session.json", cfg.Session.Path)
	})

	t.Run("Should handle source loading errors", func(t *testing.T) {
		source := &mockSource{loadErr: assert.AnError, sourceType: SourceYAML}

		cfg, err := NewService().Load(t.Context(), source)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load from source")
		assert.Nil(t, cfg)
	})
}

func TestLoader_GetSource(t *testing.T) {
	t.Run("Should track which source provided each key", func(t *testing.T) {
		t.Setenv("TASKFORGE_LOG_LEVEL", "warn")
		svc := NewService()
		yamlSource := &mockSource{
			data:       map[string]any{"api": map[string]any{"timeout": "10s"}},
			sourceType: SourceYAML,
		}
		cliSource := &mockSource{
			data:       map[string]any{"cli": map[string]any{"default_format": "json"}},
			sourceType: SourceCLI,
		}

		_, err := svc.Load(t.Context(), yamlSource, cliSource)

		require.NoError(t, err)
		assert.Equal(t, SourceYAML, svc.GetSource("api.timeout"))
		assert.Equal(t, SourceEnv, svc.GetSource("runtime.log_level"))
		assert.Equal(t, SourceCLI, svc.GetSource("cli.default_format"))
		assert.Equal(t, SourceDefault, svc.GetSource("api.base_url"))
		assert.Equal(t, SourceDefault, svc.GetSource("not.a.key"))
	})
}
