package collecting

import (
	"log/slog"
	"sync"
)

// Manager runs a fixed set of collectors, one pass per Collect call.
type Manager struct {
	collectors []Collector
	concurrent bool
	logger     *slog.Logger
}

// NewManager keeps collectors in the given order.
func NewManager(collectors []Collector, concurrent bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		collectors: collectors,
		concurrent: concurrent,
		logger:     logger,
	}

	mode := "sequential"
	if concurrent {
		mode = "concurrent"
	}
	logger.Debug("initialized collectors", "count", len(collectors), "mode", mode)
	return m
}

// Collect runs every collector once. Sections come back in collector
// order; a failing collector yields a Section carrying its error.
func (m *Manager) Collect() []Section {
	sections := make([]Section, len(m.collectors))
	if m.concurrent {
		var wg sync.WaitGroup
		wg.Add(len(m.collectors))
		for i, c := range m.collectors {
			go func(i int, col Collector) {
				defer wg.Done()
				sections[i] = m.run(col)
			}(i, c)
		}
		wg.Wait()
	} else {
		for i, c := range m.collectors {
			sections[i] = m.run(c)
		}
	}
	return sections
}

func (m *Manager) run(c Collector) Section {
	v, err := c.Collect()
	if err != nil {
		m.logger.Warn("collector failed", "section", c.Name(), "error", err)
	}
	return Section{Name: c.Name(), Value: v, Err: err}
}

// CollectorNames lists the sections in order.
func (m *Manager) CollectorNames() []string {
	names := make([]string, len(m.collectors))
	for i, c := range m.collectors {
		names[i] = c.Name()
	}
	return names
}
