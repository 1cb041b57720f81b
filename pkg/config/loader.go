package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "TASKFORGE_"

// loader implements the Service interface for configuration management.
type loader struct {
	koanf      *koanf.Koanf
	validator  *validator.Validate
	metadata   Metadata
	metadataMu sync.RWMutex
}

// sensitiveStringDecodeHook is a mapstructure decode hook that converts strings to SensitiveString
func sensitiveStringDecodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(SensitiveString("")) {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		return SensitiveString(v), nil
	case []byte:
		return SensitiveString(v), nil
	default:
		return data, nil
	}
}

// NewService creates a new configuration service with validation support.
func NewService() Service {
	v := validator.New()
	if err := RegisterCustomValidators(v); err != nil {
		panic(fmt.Sprintf("failed to register config validators: %v", err))
	}
	return &loader{
		koanf:     koanf.New("."),
		validator: v,
		metadata: Metadata{
			Sources: make(map[string]SourceType),
		},
	}
}

// Load builds the configuration. Precedence from lowest to highest: defaults,
// YAML sources, TASKFORGE_* environment variables, CLI flags.
func (l *loader) Load(_ context.Context, sources ...Source) (*Config, error) {
	l.reset()

	if err := l.loadDefaults(); err != nil {
		return nil, err
	}

	var flags []Source
	for _, source := range sources {
		if source == nil || source.Type() == SourceEnv {
			continue
		}
		if source.Type() == SourceCLI {
			flags = append(flags, source)
			continue
		}
		if err := l.loadSource(source); err != nil {
			return nil, err
		}
	}

	if err := l.loadEnvironment(); err != nil {
		return nil, err
	}

	for _, source := range flags {
		if err := l.loadSource(source); err != nil {
			return nil, err
		}
	}

	return l.unmarshalAndValidate()
}

func (l *loader) reset() {
	l.koanf = koanf.New(".")

	l.metadataMu.Lock()
	l.metadata.Sources = make(map[string]SourceType)
	l.metadata.LoadedAt = time.Now()
	l.metadataMu.Unlock()
}

func (l *loader) loadDefaults() error {
	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	for _, key := range l.koanf.Keys() {
		l.trackSource(key, SourceDefault)
	}
	return nil
}

// loadEnvironment reads only the variables declared through `env` struct tags.
func (l *loader) loadEnvironment() error {
	envToPath := GenerateEnvToConfigMap()
	before := l.snapshot()
	if err := l.koanf.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key string, value string) (string, any) {
			if path, ok := envToPath[key]; ok {
				return path, value
			}
			return "", nil
		},
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	l.trackChanges(before, SourceEnv)
	return nil
}

func (l *loader) loadSource(source Source) error {
	data, err := source.Load()
	if err != nil {
		return fmt.Errorf("failed to load from source %s: %w", source.Type(), err)
	}
	if len(data) == 0 {
		return nil
	}
	before := l.snapshot()
	// Set keys one by one so values absent from this source are preserved.
	flat, _ := maps.Flatten(data, nil, ".")
	for key, value := range flat {
		if err := l.koanf.Set(key, value); err != nil {
			return fmt.Errorf("failed to set key %s from source %s: %w", key, source.Type(), err)
		}
	}
	l.trackChanges(before, source.Type())
	return nil
}

func (l *loader) snapshot() map[string]any {
	out := make(map[string]any)
	for _, key := range l.koanf.Keys() {
		out[key] = l.koanf.Get(key)
	}
	return out
}

func (l *loader) trackChanges(before map[string]any, source SourceType) {
	for _, key := range l.koanf.Keys() {
		prev, existed := before[key]
		if !existed || !reflect.DeepEqual(prev, l.koanf.Get(key)) {
			l.trackSource(key, source)
		}
	}
}

func (l *loader) unmarshalAndValidate() (*Config, error) {
	var config Config
	if err := l.koanf.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &config,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				sensitiveStringDecodeHook,
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Validate checks if the configuration meets all validation requirements.
func (l *loader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := l.validator.Struct(config); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if config.Auth.Password != "" && config.Auth.Email == "" {
		return fmt.Errorf("auth.password requires auth.email")
	}
	return nil
}

// GetSource returns the source type for a specific configuration key.
func (l *loader) GetSource(key string) SourceType {
	l.metadataMu.RLock()
	defer l.metadataMu.RUnlock()
	if source, ok := l.metadata.Sources[key]; ok {
		return source
	}
	return SourceDefault
}

func (l *loader) trackSource(key string, source SourceType) {
	l.metadataMu.Lock()
	defer l.metadataMu.Unlock()
	l.metadata.Sources[key] = source
}
