package references

import (
	"log/slog"

	"github.com/JaimeStill/taxon/pkg/metrics"
)

// Engine runs cascades and dependency audits over a reference map.
type Engine struct {
	refs   Map
	logger *slog.Logger
}

// NewEngine creates an Engine for refs.
func NewEngine(refs Map, logger *slog.Logger) *Engine {
	return &Engine{
		refs:   refs,
		logger: logger.With("system", "references"),
	}
}

// References returns the references held for t.
func (e *Engine) References(t Type) []Reference {
	return e.refs.For(t)
}

// RecordCascade adds committed cascade counts to the cascaded rows metric.
func RecordCascade(counts Counts) {
	for name, n := range counts {
		metrics.CascadedRows.WithLabelValues(name).Add(float64(n))
	}
}
