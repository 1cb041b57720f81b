package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSensitiveString(t *testing.T) {
	t.Run("Should redact the password but keep its value", func(t *testing.T) {
		password := SensitiveString("hunter2")
		assert.Equal(t, "[REDACTED]", password.String())
		assert.Equal(t, "hunter2", password.Value())
		assert.Empty(t, SensitiveString("").String())
	})

	t.Run("Should never print the password when the auth section is marshaled", func(t *testing.T) {
		auth := AuthConfig{Email: "ada@example.com", Password: "hunter2"}

		asJSON, err := json.Marshal(auth)
		require.NoError(t, err)
		assert.NotContains(t, string(asJSON), "hunter2")
		assert.Contains(t, string(asJSON), "[REDACTED]")

		asYAML, err := yaml.Marshal(map[string]any{"password": auth.Password})
		require.NoError(t, err)
		assert.Contains(t, string(asYAML), "'[REDACTED]'")
		assert.NotContains(t, string(asYAML), "hunter2")
	})

	t.Run("Should marshal an unset password as an empty string", func(t *testing.T) {
		data, err := json.Marshal(SensitiveString(""))
		require.NoError(t, err)
		assert.JSONEq(t, `""`, string(data))
	})

	t.Run("Should read the password from JSON", func(t *testing.T) {
		var password SensitiveString
		require.NoError(t, json.Unmarshal([]byte(`"from-file"`), &password))
		assert.Equal(t, "from-file", password.Value())
		assert.Error(t, json.Unmarshal([]byte(`42`), &password))
	})
}
