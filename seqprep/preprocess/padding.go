package preprocess

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PadSequences right-pads each id sequence with 0 to the length of the
// longest sequence in the batch.
func PadSequences(seqs [][]int) [][]int {
	maxLen := 0
	for _, s := range seqs {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	out := make([][]int, len(seqs))
	for i, s := range seqs {
		row := make([]int, maxLen)
		copy(row, s)
		out[i] = row
	}
	return out
}

// PadNestedSequences pads a batch of per-word character id sequences to
// shape [batch, maxSentLen, maxWordLen]. maxWordLen is the single
// longest word found anywhere in the batch, applied uniformly to every
// word; entire sentence slots beyond a sentence's length stay zero.
func PadNestedSequences(seqs [][][]int) [][][]int {
	maxSentLen := 0
	maxWordLen := 0
	for _, sent := range seqs {
		if len(sent) > maxSentLen {
			maxSentLen = len(sent)
		}
		for _, word := range sent {
			if len(word) > maxWordLen {
				maxWordLen = len(word)
			}
		}
	}

	out := make([][][]int, len(seqs))
	for i, sent := range seqs {
		rows := make([][]int, maxSentLen)
		for j := range rows {
			rows[j] = make([]int, maxWordLen)
		}
		for j, word := range sent {
			copy(rows[j], word)
		}
		out[i] = rows
	}
	return out
}

// OneHot expands a padded label id sequence into a dense matrix of
// shape (len(ids), width) with a single 1 per row. Padded positions
// encode as index 0.
func OneHot(ids []int, width int) (*mat.Dense, error) {
	m := mat.NewDense(len(ids), width, nil)
	for i, id := range ids {
		if id < 0 || id >= width {
			return nil, fmt.Errorf("%w: id %d, width %d", ErrLabelOutOfRange, id, width)
		}
		m.Set(i, id, 1)
	}
	return m, nil
}
