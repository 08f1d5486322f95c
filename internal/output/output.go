package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/desktop-throw/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (expected yaml or json)", s)
	}
}

// ThrowResult is the top-level output of the `simulate` command.
type ThrowResult struct {
	OK         bool              `yaml:"ok"                   json:"ok"`
	Action     string            `yaml:"action"               json:"action"`
	Rest       bool              `yaml:"rest"                 json:"rest"`
	Frames     int               `yaml:"frames"               json:"frames"`
	DurationMs int               `yaml:"duration_ms"          json:"duration_ms"`
	Release    [2]float64        `yaml:"release"              json:"release"`
	Start      [2]int            `yaml:"start"                json:"start"`
	End        [2]int            `yaml:"end"                  json:"end"`
	Distance   float64           `yaml:"distance"             json:"distance"`
	Trajectory *model.Trajectory `yaml:"trajectory,omitempty" json:"trajectory,omitempty"`
}

// NewThrowResult summarizes t. The full trajectory is attached when withPoints is set.
func NewThrowResult(t model.Trajectory, withPoints bool) ThrowResult {
	sx, sy := t.Start()
	ex, ey := t.End()
	r := ThrowResult{
		OK:         true,
		Action:     "simulate",
		Rest:       t.Rest,
		Frames:     len(t.Points) - 1,
		DurationMs: t.DurationMs(),
		Release:    t.Release,
		Start:      [2]int{sx, sy},
		End:        [2]int{ex, ey},
		Distance:   t.Distance(),
	}
	if r.Frames < 0 {
		r.Frames = 0
	}
	if withPoints {
		r.Trajectory = &t
	}
	return r
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return FprintPrettyJSON(w, v)
		}
		return FprintJSON(w, v)
	case FormatYAML:
		return FprintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// FprintJSON serializes v to w as compact single-line JSON.
func FprintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// FprintPrettyJSON serializes v to w as indented JSON.
func FprintPrettyJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// FprintYAML serializes v to w as YAML.
func FprintYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
