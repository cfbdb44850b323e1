package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dotmd/dotmd/core"
)

func TestNoopMonitor_DoesNotPanic(t *testing.T) {
	mon := NoopMonitor()
	mon.Start("query")
	mon.AfterDense([]core.ScoredChunk{{ChunkId: core.ID(1), Score: 1}}, time.Millisecond)
	mon.AfterSparse(nil, 0)
	mon.AfterGraph(nil, 0)
	mon.Finish()
}

func TestNoopMonitor_SatisfiesInterface(t *testing.T) {
	var mon Monitor = NoopMonitor()
	assert.NotNil(t, mon)
}
