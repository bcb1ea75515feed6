// Package report assembles the outcome of a scan into a serializable
// document and writes it as JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/lanyi1998/dirsearch/pkg/defaults"
	"github.com/lanyi1998/dirsearch/pkg/fuzzer"
)

// Entry is one confirmed hit in the report.
type Entry struct {
	Path          string `json:"path" yaml:"path"`
	Status        int    `json:"status" yaml:"status"`
	ContentLength int    `json:"content_length" yaml:"content_length"`
	Redirect      string `json:"redirect,omitempty" yaml:"redirect,omitempty"`
}

// Report is the complete scan outcome.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Version   string        `json:"version" yaml:"version"`
	Target    string        `json:"target" yaml:"target"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration_ns" yaml:"duration_ns"`

	Requested int `json:"requested" yaml:"requested"`
	Found     int `json:"found" yaml:"found"`
	Errors    int `json:"errors" yaml:"errors"`

	Results []Entry `json:"results" yaml:"results"`
}

// New builds a report from the engine's confirmed hits, sorted by path for
// stable output.
func New(target string, startedAt time.Time, requested, errors int, matches []*fuzzer.Result) *Report {
	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, Entry{
			Path:          m.Path,
			Status:        m.Status,
			ContentLength: m.ContentLength(),
			Redirect:      m.Redirect(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return &Report{
		RunID:     uuid.NewString(),
		Version:   defaults.Version,
		Target:    target,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Requested: requested,
		Found:     len(entries),
		Errors:    errors,
		Results:   entries,
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Save writes the report to path, choosing the format from the extension
// (.yaml/.yml for YAML, JSON otherwise).
func (r *Report) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return r.WriteYAML(f)
	}
	return r.WriteJSON(f)
}
