package preprocess

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PaddedBatch holds the rectangular tensors for one mini-batch. Every
// call to BatchPadder.Transform allocates fresh arrays; nothing is
// shared or mutated after return.
type PaddedBatch struct {
	WordIDs [][]int      // [batch][maxSentLen]
	CharIDs [][][]int    // [batch][maxSentLen][maxWordLen], nil when chars absent
	Labels  []*mat.Dense // per sentence, maxSentLen x labelCount one-hot; nil when labels absent
}

// BatchPadder is the dynamic phase: it pads id-encoded sequences into
// rectangular arrays per batch and one-hot encodes labels. It holds no
// state beyond the configured label count, so it is safe to share.
type BatchPadder struct {
	labelCount int
}

// NewBatchPadder creates a padder whose one-hot vectors have width
// labelCount (distinct label ids, padding included).
func NewBatchPadder(labelCount int) *BatchPadder {
	return &BatchPadder{labelCount: labelCount}
}

// Transform pads one batch. labelIDs may be nil; when given it must
// have one sequence per sentence, and every id must be below the
// configured label count.
func (p *BatchPadder) Transform(enc *Encoded, labelIDs [][]int) (*PaddedBatch, error) {
	batch := &PaddedBatch{
		WordIDs: PadSequences(enc.WordIDs),
	}
	if enc.CharIDs != nil {
		batch.CharIDs = PadNestedSequences(enc.CharIDs)
	}

	if labelIDs == nil {
		return batch, nil
	}
	if len(labelIDs) != len(enc.WordIDs) {
		return nil, fmt.Errorf("%w: %d label sequences for %d sentences", ErrLengthMismatch, len(labelIDs), len(enc.WordIDs))
	}
	padded := PadSequences(labelIDs)
	if len(padded) == 0 || len(padded[0]) == 0 {
		return batch, nil
	}
	batch.Labels = make([]*mat.Dense, len(padded))
	for i, ids := range padded {
		oneHot, err := OneHot(ids, p.labelCount)
		if err != nil {
			return nil, err
		}
		batch.Labels[i] = oneHot
	}
	return batch, nil
}

// LabelCount returns the configured one-hot width.
func (p *BatchPadder) LabelCount() int {
	return p.labelCount
}
