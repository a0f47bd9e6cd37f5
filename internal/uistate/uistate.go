// Package uistate keeps presentation preferences: the order of chart panels
// and whether the entry form is collapsed.
package uistate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/headache-tracker/internal/logging"
	"github.com/Tiliavir/headache-tracker/internal/series"
)

// FileName is the state file inside the data directory.
const FileName = "ui.yaml"

// State is the persisted UI state.
type State struct {
	ChartOrder    []series.Metric `yaml:"chartOrder"`
	FormCollapsed bool            `yaml:"formCollapsed"`
}

// Default returns the state used when nothing has been saved.
func Default() State {
	return State{ChartOrder: append([]series.Metric(nil), series.Metrics...)}
}

// NormalizeOrder resolves panel ids against the known metrics. Unknown and
// repeated ids are dropped; known panels missing from order are appended in
// default order.
func NormalizeOrder(order []string) []series.Metric {
	seen := make(map[series.Metric]bool, len(series.Metrics))
	out := make([]series.Metric, 0, len(series.Metrics))
	for _, id := range order {
		m, err := series.ParseMetric(id)
		if err != nil || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	for _, m := range series.Metrics {
		if !seen[m] {
			out = append(out, m)
		}
	}
	return out
}

// Store reads and writes <dir>/ui.yaml.
type Store struct {
	path string
	log  logging.Logger
}

// New returns a Store rooted at dir.
func New(dir string, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{path: filepath.Join(dir, FileName), log: log}
}

// Path returns the state file path.
func (s *Store) Path() string { return s.path }

type rawState struct {
	ChartOrder    []string `yaml:"chartOrder"`
	FormCollapsed bool     `yaml:"formCollapsed"`
}

// Load returns the saved state, or defaults when the file is missing or
// unreadable. A damaged file is logged, not returned as an error.
func (s *Store) Load(ctx context.Context) State {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	if err != nil {
		s.log.Error(ctx, fmt.Errorf("reading ui state %s: %w", s.path, err), nil)
		return Default()
	}

	var raw rawState
	if err := yaml.Unmarshal(data, &raw); err != nil {
		s.log.Error(ctx, fmt.Errorf("parsing ui state %s: %w", s.path, err), logging.Fields{"fallback": "defaults"})
		return Default()
	}
	return State{
		ChartOrder:    NormalizeOrder(raw.ChartOrder),
		FormCollapsed: raw.FormCollapsed,
	}
}

// Save writes st atomically.
func (s *Store) Save(st State) error {
	raw := rawState{FormCollapsed: st.FormCollapsed}
	for _, m := range st.ChartOrder {
		raw.ChartOrder = append(raw.ChartOrder, string(m))
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal ui state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// SetOrder normalizes and saves a new panel order.
func (s *Store) SetOrder(ctx context.Context, order []string) (State, error) {
	st := s.Load(ctx)
	st.ChartOrder = NormalizeOrder(order)
	return st, s.Save(st)
}

// SetCollapsed saves the form collapse flag.
func (s *Store) SetCollapsed(ctx context.Context, collapsed bool) (State, error) {
	st := s.Load(ctx)
	st.FormCollapsed = collapsed
	return st, s.Save(st)
}
