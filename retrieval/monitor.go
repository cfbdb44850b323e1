package retrieval

import (
	"time"

	"github.com/dotmd/dotmd/core"
)

// Monitor observes the retrieval stage of a query, one callback per
// retriever, so a caller (e.g. the CLI's --verbose flag) can report
// timing and candidate counts without the retrievers themselves knowing
// about it.
type Monitor interface {
	Start(query string)
	AfterDense(results []core.ScoredChunk, elapsed time.Duration)
	AfterSparse(results []core.ScoredChunk, elapsed time.Duration)
	AfterGraph(results []core.ScoredChunk, elapsed time.Duration)
	Finish()
}

// noopMonitor discards every callback.
type noopMonitor struct{}

var _ Monitor = noopMonitor{}

func (noopMonitor) Start(_ string)                                        {}
func (noopMonitor) AfterDense(_ []core.ScoredChunk, _ time.Duration)       {}
func (noopMonitor) AfterSparse(_ []core.ScoredChunk, _ time.Duration)      {}
func (noopMonitor) AfterGraph(_ []core.ScoredChunk, _ time.Duration)       {}
func (noopMonitor) Finish()                                                {}

// NoopMonitor returns a Monitor that discards every callback, for
// callers that do not need observability.
func NoopMonitor() Monitor { return noopMonitor{} }
