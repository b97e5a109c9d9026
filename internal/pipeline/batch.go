package pipeline

import (
	"context"
	"sync"

	"github.com/showgrab/showgrab/internal/scrape"
)

// resolveFunc resolves a single episode reference to its record.
type resolveFunc func(ctx context.Context, ref scrape.EpisodeReference) EpisodeRecord

// resolveInBatches partitions refs, in their discovery order, into
// consecutive chunks of batchSize. Each chunk's resolutions run
// concurrently; the next chunk starts only when the whole chunk is done,
// bounding peak outbound connections to batchSize. Results keep the input
// order regardless of completion order.
func resolveInBatches(ctx context.Context, refs []scrape.EpisodeReference, batchSize int, resolve resolveFunc) []EpisodeRecord {
	if batchSize < 1 {
		batchSize = 1
	}

	records := make([]EpisodeRecord, len(refs))

	for start := 0; start < len(refs); start += batchSize {
		end := start + batchSize
		if end > len(refs) {
			end = len(refs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				records[i] = resolve(ctx, refs[i])
			}(i)
		}
		wg.Wait()
	}

	return records
}
