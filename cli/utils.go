package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taskforge/taskforge/pkg/config"
)

// allFlags merges local, persistent and inherited flags so lookups work both
// during Execute and when setup runs on an unparsed command.
func allFlags(cmd *cobra.Command) *pflag.FlagSet {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.AddFlagSet(cmd.Flags())
	fs.AddFlagSet(cmd.PersistentFlags())
	fs.AddFlagSet(cmd.InheritedFlags())
	return fs
}

// extractCLIFlags collects the configuration flags explicitly changed by the
// user, keyed by flag name.
func extractCLIFlags(fs *pflag.FlagSet) map[string]any {
	flags := make(map[string]any)
	for name := range config.FlagPaths {
		flag := fs.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		var (
			value any
			err   error
		)
		switch flag.Value.Type() {
		case "bool":
			value, err = fs.GetBool(name)
		case "duration":
			value, err = fs.GetDuration(name)
		default:
			value = flag.Value.String()
		}
		if err == nil {
			flags[name] = value
		}
	}
	return flags
}

// loadEnvFile loads environment variables from a file with security validation
func loadEnvFile(fs *pflag.FlagSet) (string, error) {
	envFile, err := fs.GetString("env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return "", nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(pwd, envFile)
	}
	absPath, err := filepath.Abs(filepath.Clean(envFile))
	if err != nil {
		return "", fmt.Errorf("failed to resolve env file path: %w", err)
	}
	if !isPathWithinDirectory(absPath, pwd) {
		return "", fmt.Errorf("env file path '%s' is outside the working directory", envFile)
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", fmt.Errorf("failed to stat env file: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return "", fmt.Errorf("env file path '%s' is not a regular file", envFile)
	}
	if err := godotenv.Load(absPath); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", absPath, err)
	}
	return absPath, nil
}

// isPathWithinDirectory checks if a given path is within the specified directory
func isPathWithinDirectory(path, dir string) bool {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return false
	}
	if !strings.HasSuffix(absDir, string(filepath.Separator)) {
		absDir += string(filepath.Separator)
	}
	return strings.HasPrefix(absPath, absDir) || absPath == strings.TrimSuffix(absDir, string(filepath.Separator))
}
