package probe

import (
	"fmt"
	"time"

	"github.com/evcs-platform/evcs-smoke/internal/api/models"
	"github.com/jedib0t/go-pretty/table"
)

// Result is the outcome of one probe.
type Result struct {
	Name       string        `json:"name" yaml:"name"`
	Endpoint   string        `json:"endpoint" yaml:"endpoint"`
	OK         bool          `json:"ok" yaml:"ok"`
	Items      int           `json:"items" yaml:"items"`
	StatusCode int           `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration   time.Duration `json:"-" yaml:"-"`
	Elapsed    string        `json:"elapsed" yaml:"elapsed"`
}

// Report is everything one run observed. Skipped lists probes that never ran
// because the run stopped early.
type Report struct {
	RunID      string          `json:"runId" yaml:"runId"`
	BaseURL    string          `json:"baseUrl" yaml:"baseUrl"`
	Session    *models.Session `json:"session,omitempty" yaml:"session,omitempty"`
	LoginError string          `json:"loginError,omitempty" yaml:"loginError,omitempty"`
	Results    []Result        `json:"results" yaml:"results"`
	Skipped    []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

func (r *Report) Failed() int {
	failed := 0
	for _, res := range r.Results {
		if !res.OK {
			failed++
		}
	}
	return failed
}

func (r *Report) OK() bool {
	return r.Session != nil && r.LoginError == "" && r.Failed() == 0 && len(r.Skipped) == 0
}

func (r *Report) add(res Result) {
	res.Elapsed = res.Duration.Round(time.Millisecond).String()
	r.Results = append(r.Results, res)
}

// Table renders the per-probe summary.
func (r *Report) Table() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Probe", "Endpoint", "Result", "Items", "Duration"})

	for _, res := range r.Results {
		result := "OK"
		items := fmt.Sprint(res.Items)
		if !res.OK {
			result = "FAILED"
			if res.StatusCode != 0 {
				result = fmt.Sprintf("FAILED (%d)", res.StatusCode)
			}
			items = "-"
		}
		t.AppendRow(table.Row{res.Name, res.Endpoint, result, items, res.Elapsed})
	}
	for _, name := range r.Skipped {
		t.AppendRow(table.Row{name, "", "SKIPPED", "-", ""})
	}

	t.SetStyle(table.StyleLight)
	return t.Render()
}
