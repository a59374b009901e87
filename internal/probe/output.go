package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

func ParseOutput(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	case OutputYAML, "yml":
		return OutputYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (text, json or yaml)", s)
	}
}

// Write renders the report summary. Text output is the table only; the probe
// lines were already streamed by the Printer.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintf(w, "\n%s\n", r.Table())
		return err
	}
}
