package helpers

// Mode is how a command presents results.
type Mode string

const (
	ModeJSON Mode = "json"
	ModeTUI  Mode = "tui"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatTUI  OutputFormat = "tui"
)

// FormatForMode maps a mode to its default output format.
func FormatForMode(mode Mode) OutputFormat {
	if mode == ModeTUI {
		return OutputFormatTUI
	}
	return OutputFormatJSON
}
