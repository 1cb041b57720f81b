package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/maps"
	"gopkg.in/yaml.v3"
)

// FlagPaths maps persistent CLI flag names to configuration paths.
var FlagPaths = map[string]string{
	"base-url":    "api.base_url",
	"timeout":     "api.timeout",
	"format":      "cli.default_format",
	"interactive": "cli.interactive",
	"no-color":    "cli.no_color",
	"session":     "session.path",
	"log-level":   "runtime.log_level",
	"log-json":    "runtime.log_json",
	"log-source":  "runtime.log_source",
}

// cliProvider implements Source interface for CLI flags.
type cliProvider struct {
	flags map[string]any
}

// NewCLIProvider creates a configuration source from explicitly set flags.
// Unknown flag names are ignored.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{flags: flags}
}

func (c *cliProvider) Load() (map[string]any, error) {
	flat := make(map[string]any, len(c.flags))
	for key, value := range c.flags {
		if path, ok := FlagPaths[key]; ok {
			flat[path] = value
		}
	}
	return maps.Unflatten(flat, "."), nil
}

func (c *cliProvider) Type() SourceType {
	return SourceCLI
}

// yamlProvider implements Source interface for YAML files.
type yamlProvider struct {
	path string
}

// NewYAMLProvider creates a YAML file source. A missing file yields no values.
func NewYAMLProvider(path string) Source {
	return &yamlProvider{path: path}
}

func (y *yamlProvider) Load() (map[string]any, error) {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return filterNilValues(config), nil
}

// filterNilValues recursively removes nil values so they never override
// lower-precedence sources.
func filterNilValues(m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		if v == nil {
			continue
		}
		if nestedMap, ok := v.(map[string]any); ok {
			filtered := filterNilValues(nestedMap)
			if len(filtered) > 0 {
				result[k] = filtered
			}
		} else {
			result[k] = v
		}
	}
	return result
}

func (y *yamlProvider) Type() SourceType {
	return SourceYAML
}
