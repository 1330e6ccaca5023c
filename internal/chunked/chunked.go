// Package chunked implements the Chunked Processor (C6): splits a large
// review queue into fixed-size chunks and checks a memory ceiling between
// chunks, so a very large session cannot grow unbounded.
//
// The memory-ceiling check uses runtime.MemStats rather than a third-party
// library: no repository in the pack offers process-RSS or heap
// introspection with a real call site to imitate, so this one narrow
// concern stays on the standard library (see DESIGN.md).
package chunked

import (
	"runtime"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/logging"
)

var log = logging.Get("chunked")

// Processor splits items into chunks and applies fn to each, pausing to
// check the memory ceiling between chunks.
type Processor struct {
	ChunkSize   int
	MaxMemoryMB int
}

// New builds a Processor with the given chunk size and memory ceiling.
func New(chunkSize, maxMemoryMB int) *Processor {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &Processor{ChunkSize: chunkSize, MaxMemoryMB: maxMemoryMB}
}

// Process invokes fn once per chunk with the chunk's half-open index range
// [start, end) within [0, total), stopping with a Transient error if the
// memory ceiling is exceeded before a chunk can start.
func (p *Processor) Process(total int, fn func(start, end int) error) error {
	for start := 0; start < total; start += p.ChunkSize {
		end := start + p.ChunkSize
		if end > total {
			end = total
		}

		if p.MaxMemoryMB > 0 {
			if mb := currentHeapMB(); mb > p.MaxMemoryMB {
				log.Warn("memory ceiling exceeded: %d MB > %d MB at chunk [%d,%d)", mb, p.MaxMemoryMB, start, end)
				return apperrors.New(apperrors.Transient, "memory ceiling exceeded")
			}
		}

		log.Debug("processing chunk [%d,%d)", start, end)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}

func currentHeapMB() int {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int(m.HeapAlloc / (1 << 20))
}
