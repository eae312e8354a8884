// Package greenbonds holds the green bond dashboard content and the registry of
// project figures discovered for its sections.
package greenbonds

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"findings.ee105.org/internal/charts"
	"findings.ee105.org/internal/dataset"
	"findings.ee105.org/internal/logging"
)

// PlotFunc draws one project figure.
type PlotFunc func() (charts.Figure, error)

// ErrUnknownFigure is returned for names that were never registered.
var ErrUnknownFigure = errors.New("unknown figure")

// Registry maps figure names to plot functions. Figures are looked up by the
// section naming convention and invoked without ever panicking the caller.
type Registry struct {
	mu     sync.RWMutex
	funcs  map[string]PlotFunc
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		funcs:  make(map[string]PlotFunc),
		logger: logger.With(slog.String("component", "figure_registry")),
	}
}

// Register adds fn under name, replacing an earlier registration.
func (r *Registry) Register(name string, fn PlotFunc) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("figure name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("figure %q has no plot function", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
	return nil
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered figures.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.funcs)
}

// Find returns the figures for a section, sorted by name. A name matches when,
// lower-cased, it starts with "section<N>" or starts with "plot" and contains it.
// When nothing matches, the conventional names plot_section<N>_graph1,
// plot_section<N>_graph2, plot_section<N> and plot_s<N> are tried in that order.
func (r *Registry) Find(section int) []string {
	prefix := fmt.Sprintf("section%d", section)

	var found []string
	for _, name := range r.Names() {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, prefix) || (strings.HasPrefix(lower, "plot") && strings.Contains(lower, prefix)) {
			found = append(found, name)
		}
	}
	if len(found) > 0 {
		return found
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range fallbackNames(section) {
		if _, ok := r.funcs[name]; ok {
			found = append(found, name)
		}
	}
	return found
}

func fallbackNames(section int) []string {
	return []string{
		fmt.Sprintf("plot_section%d_graph1", section),
		fmt.Sprintf("plot_section%d_graph2", section),
		fmt.Sprintf("plot_section%d", section),
		fmt.Sprintf("plot_s%d", section),
	}
}

// Render runs the named plot function. Errors and panics are returned as errors.
func (r *Registry) Render(name string) (fig charts.Figure, err error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFigure, name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			fig, err = nil, logging.RecoverToError(rec, r.logger, "figure "+name)
		}
	}()

	fig, err = fn()
	if err == nil && fig == nil {
		err = charts.ErrNoData
	}
	return fig, err
}

// LoadDir registers one figure per CSV file in dir, named after the file without
// its extension. Each figure reads its file when rendered and plots the first two
// columns. It returns the number of figures registered.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("could not load figures from %s: %w", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if err := r.Register(name, csvFigure(name, filepath.Join(dir, entry.Name()))); err != nil {
			return count, err
		}
		count++
	}

	logging.LogOperation(r.logger, "figures_loaded",
		slog.String("dir", dir),
		slog.Int("count", count))
	return count, nil
}

func csvFigure(title, path string) PlotFunc {
	return func() (_ charts.Figure, err error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer logging.HandleDeferredError(&err, f.Close, slog.Default(), "close_figure_csv")

		table, err := dataset.ReadTable(f)
		if err != nil {
			return nil, err
		}
		xy, err := table.XY()
		if err != nil {
			return nil, err
		}
		return charts.Trend(title, xy)
	}
}
