package collecting

// Collector produces one named section of a snapshot.
type Collector interface {
	Name() string
	Collect() (any, error)
}

type funcCollector struct {
	name string
	fn   func() (any, error)
}

func (c funcCollector) Name() string          { return c.name }
func (c funcCollector) Collect() (any, error) { return c.fn() }

// NewCollector adapts a fact query to the Collector interface.
func NewCollector(name string, fn func() (any, error)) Collector {
	return funcCollector{name: name, fn: fn}
}

// Section is the outcome of one collector.
type Section struct {
	Name  string
	Value any
	Err   error
}
