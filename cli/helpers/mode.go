package helpers

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/pkg/config"
)

var ciVars = []string{
	"CI",
	"JENKINS_HOME",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"BUILDKITE",
	"DRONE",
	"TF_BUILD",
	"CODEBUILD_BUILD_ID",
	"TEAMCITY_VERSION",
	"CONTINUOUS_INTEGRATION",
}

func isRunningInCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// explicitMode returns the mode named by configuration, if any.
func explicitMode(cfg *config.Config) (Mode, bool) {
	switch cfg.CLI.DefaultFormat {
	case config.FormatJSON:
		return ModeJSON, true
	case config.FormatTUI:
		return ModeTUI, true
	default:
		return ModeJSON, false
	}
}

// IsInteractive reports whether prompts may be shown.
func IsInteractive(cfg *config.Config) bool {
	if !cfg.CLI.Interactive || isRunningInCI() {
		return false
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}

// DetectMode picks the output mode: an explicit format wins, then an
// interactive terminal selects TUI, and everything else gets JSON.
func DetectMode(cmd *cobra.Command) Mode {
	cfg := config.FromContext(cmd.Context())
	if mode, found := explicitMode(cfg); found {
		return mode
	}
	if IsInteractive(cfg) {
		return ModeTUI
	}
	return ModeJSON
}

// ShouldUseColor determines if colored output should be used
func ShouldUseColor(cmd *cobra.Command) bool {
	cfg := config.FromContext(cmd.Context())
	if cfg.CLI.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isTerminal(os.Stdout) || isRunningInCI() {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}
