package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const defaultTerminalWidth = 100

// Renderer is implemented by values with a styled terminal view.
type Renderer interface {
	RenderTUI(width int) string
}

// OutputWriter handles different output formats
type OutputWriter struct {
	writer io.Writer
	format OutputFormat
	width  int
}

// NewOutputWriter creates a new output writer
func NewOutputWriter(writer io.Writer, format OutputFormat) *OutputWriter {
	return &OutputWriter{
		writer: writer,
		format: format,
		width:  TerminalWidth(writer),
	}
}

// WriteData writes data in the specified format
func (ow *OutputWriter) WriteData(data any) error {
	switch ow.format {
	case OutputFormatJSON:
		return ow.writeJSON(data)
	case OutputFormatYAML:
		return ow.writeYAML(data)
	case OutputFormatTUI:
		return ow.writeTUI(data)
	default:
		return fmt.Errorf("unsupported output format: %s", ow.format)
	}
}

func (ow *OutputWriter) writeJSON(data any) error {
	encoder := json.NewEncoder(ow.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (ow *OutputWriter) writeYAML(data any) error {
	encoder := yaml.NewEncoder(ow.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// writeTUI uses the value's own rendering and falls back to YAML.
func (ow *OutputWriter) writeTUI(data any) error {
	r, ok := data.(Renderer)
	if !ok {
		return ow.writeYAML(data)
	}
	_, err := fmt.Fprintln(ow.writer, r.RenderTUI(ow.width))
	return err
}

// TerminalWidth returns the column count of w when it is a terminal.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(value string, mode Mode) (OutputFormat, error) {
	switch OutputFormat(value) {
	case "":
		return FormatForMode(mode), nil
	case OutputFormatJSON, OutputFormatYAML, OutputFormatTUI:
		return OutputFormat(value), nil
	}
	return "", NewCliError("INVALID_FORMAT", "output must be one of: json, yaml, tui",
		fmt.Sprintf("provided: %s", value))
}
