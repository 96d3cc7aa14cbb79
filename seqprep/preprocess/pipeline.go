package preprocess

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Pipeline composes a fitted VocabularyBuilder with a BatchPadder and
// turns a whole corpus into padded mini-batches. Encoding and padding
// are independent per batch, so batches are processed concurrently on a
// bounded worker pool; output order matches corpus order.
type Pipeline struct {
	builder    *VocabularyBuilder
	padder     *BatchPadder
	maxWorkers int
}

// NewPipeline creates a pipeline over builder and padder. workers <= 0
// selects a bounded default based on available CPUs.
func NewPipeline(builder *VocabularyBuilder, padder *BatchPadder, workers int) *Pipeline {
	if workers <= 0 {
		workers = min(max(runtime.NumCPU(), 2), 16)
	}
	return &Pipeline{
		builder:    builder,
		padder:     padder,
		maxWorkers: workers,
	}
}

// Batches slices corpus (and labelCorpus, when non-nil) into mini-batches
// of batchSize sentences, encodes each against the fitted vocabularies
// and pads it. The builder must be fitted first; Transform only reads
// the vocabularies, so batches can run in parallel safely. The first
// error, or a context cancellation, aborts the remaining work.
func (p *Pipeline) Batches(ctx context.Context, corpus [][]string, labelCorpus [][]string, batchSize int) ([]*PaddedBatch, error) {
	if batchSize <= 0 {
		batchSize = 1
	}
	if labelCorpus != nil && len(labelCorpus) != len(corpus) {
		return nil, ErrLengthMismatch
	}

	nBatches := (len(corpus) + batchSize - 1) / batchSize
	results := make([]*PaddedBatch, nBatches)

	workPool := pool.New().WithMaxGoroutines(p.maxWorkers).WithContext(ctx).WithCancelOnError()
	for i := 0; i < nBatches; i++ {
		i := i
		lo := i * batchSize
		hi := min(lo+batchSize, len(corpus))
		workPool.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var labels [][]string
			if labelCorpus != nil {
				labels = labelCorpus[lo:hi]
			}
			enc, labelIDs, err := p.builder.Transform(corpus[lo:hi], labels)
			if err != nil {
				return err
			}
			padded, err := p.padder.Transform(enc, labelIDs)
			if err != nil {
				return err
			}
			results[i] = padded
			return nil
		})
	}
	if err := workPool.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
