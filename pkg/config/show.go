package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Entry is one resolved configuration value as reported by `config show`.
type Entry struct {
	Path   string     `json:"path"   yaml:"path"`
	Value  any        `json:"value"  yaml:"value"`
	Source SourceType `json:"source" yaml:"source"`
	Env    string     `json:"env,omitempty" yaml:"env,omitempty"`
}

// Entries lists every leaf of cfg sorted by path. Sensitive values are
// redacted. svc may be nil, in which case every source is reported as default.
func Entries(cfg *Config, svc Service) ([]Entry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to flatten configuration: %w", err)
	}
	keys := k.Keys()
	sort.Strings(keys)
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		value := k.Get(key)
		switch v := value.(type) {
		case SensitiveString:
			value = v.String()
		case time.Duration:
			value = v.String()
		default:
			if IsSensitiveConfigPath(key) {
				value = SensitiveString(fmt.Sprint(v)).String()
			}
		}
		source := SourceDefault
		if svc != nil {
			source = svc.GetSource(key)
		}
		entries = append(entries, Entry{
			Path:   key,
			Value:  value,
			Source: source,
			Env:    GetEnvVarForConfigPath(key),
		})
	}
	return entries, nil
}
