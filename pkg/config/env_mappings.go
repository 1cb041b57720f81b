package config

import (
	"reflect"
	"sync"
)

// leaf describes one configurable value of Config.
type leaf struct {
	path      string
	env       string
	sensitive bool
}

var (
	leaves     map[string]leaf
	envToPath  map[string]string
	leavesOnce sync.Once
)

func indexLeaves() {
	leavesOnce.Do(func() {
		leaves = make(map[string]leaf)
		envToPath = make(map[string]string)
		walkLeaves(reflect.TypeFor[Config](), "", func(l leaf) {
			leaves[l.path] = l
			if l.env != "" {
				envToPath[l.env] = l.path
			}
		})
	})
}

// walkLeaves visits every koanf-tagged field that is not a nested section.
// time.Duration and SensitiveString are leaves even though they are named types.
func walkLeaves(t reflect.Type, prefix string, visit func(leaf)) {
	for i := range t.NumField() {
		field := t.Field(i)
		name := field.Tag.Get("koanf")
		if !field.IsExported() || name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "time" {
			walkLeaves(field.Type, path, visit)
			continue
		}
		env := field.Tag.Get("env")
		if env == "-" {
			env = ""
		}
		visit(leaf{
			path:      path,
			env:       env,
			sensitive: field.Type == reflect.TypeFor[SensitiveString]() || field.Tag.Get("sensitive") == "true",
		})
	}
}

// GenerateEnvToConfigMap maps every TASKFORGE_* variable to its config path.
func GenerateEnvToConfigMap() map[string]string {
	indexLeaves()
	out := make(map[string]string, len(envToPath))
	for env, path := range envToPath {
		out[env] = path
	}
	return out
}

// GetEnvVarForConfigPath returns the variable bound to path, or "".
func GetEnvVarForConfigPath(path string) string {
	indexLeaves()
	return leaves[path].env
}

// IsSensitiveConfigPath reports whether the value at path must be redacted.
// Section paths such as "auth" are never sensitive.
func IsSensitiveConfigPath(path string) bool {
	indexLeaves()
	return leaves[path].sensitive
}
