package preprocess

import (
	"fmt"
	"sort"
	"strings"

	internal "github.com/ZanzyTHEbar/seqprep/seqprep"
	"github.com/ZanzyTHEbar/seqprep/seqprep/vocab"

	"github.com/rs/zerolog"
)

// Encoded is the intermediate representation produced by the static
// phase: one id sequence per sentence, plus per-word character id
// sequences when the character feature is enabled.
type Encoded struct {
	WordIDs [][]int
	CharIDs [][][]int // nil unless the builder was constructed with the character feature
}

// VocabularyBuilder owns the word, character and label vocabularies.
// Fit scans a corpus once and assigns ids in first-seen order; Transform
// encodes arbitrary corpora against the fitted vocabularies. The
// vocabularies are read-only after Fit, so any number of Transform
// calls may run concurrently on the same builder.
type VocabularyBuilder struct {
	lowercase       bool
	numberNormalize bool
	charFeature     bool
	initialVocab    []string

	words  *vocab.Vocabulary
	chars  *vocab.Vocabulary
	labels *vocab.Vocabulary

	logger zerolog.Logger
}

type BuilderOption func(*VocabularyBuilder)

// WithLowercase folds words to lowercase before word-id assignment and
// lookup. Character ids are always taken from the original word.
func WithLowercase(enabled bool) BuilderOption {
	return func(b *VocabularyBuilder) {
		b.lowercase = enabled
	}
}

// WithNumberNormalize replaces every decimal digit (ASCII and the
// full-width Unicode block) with '0' before word-id assignment and
// lookup.
func WithNumberNormalize(enabled bool) BuilderOption {
	return func(b *VocabularyBuilder) {
		b.numberNormalize = enabled
	}
}

// WithCharFeature controls whether a character vocabulary is built and
// character id sequences are emitted.
func WithCharFeature(enabled bool) BuilderOption {
	return func(b *VocabularyBuilder) {
		b.charFeature = enabled
	}
}

// WithInitialVocabulary unions extra words into the corpus-derived
// vocabulary during Fit, e.g. to cover a pretrained embedding
// vocabulary.
func WithInitialVocabulary(words []string) BuilderOption {
	return func(b *VocabularyBuilder) {
		b.initialVocab = append([]string(nil), words...)
	}
}

// NewVocabularyBuilder creates an unfitted builder. All three feature
// flags default to enabled.
func NewVocabularyBuilder(opts ...BuilderOption) *VocabularyBuilder {
	b := &VocabularyBuilder{
		lowercase:       true,
		numberNormalize: true,
		charFeature:     true,
		words:           vocab.New(),
		chars:           vocab.New(),
		labels:          vocab.NewLabelVocabulary(),
		logger:          internal.GetLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// normalizeNumber folds decimal digits to '0'. Covers ASCII 0-9 and the
// full-width block U+FF10..U+FF19.
func normalizeNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || (r >= '０' && r <= '９') {
			return '0'
		}
		return r
	}, s)
}

func (b *VocabularyBuilder) normalize(word string) string {
	if b.lowercase {
		word = strings.ToLower(word)
	}
	if b.numberNormalize {
		word = normalizeNumber(word)
	}
	return word
}

// Fit scans corpus and labelCorpus once and assigns vocabulary ids.
// Distinct words are visited in first-seen corpus order, then the
// initial vocabulary in sorted order, so id assignment is deterministic
// for a given corpus. labelCorpus may be nil for unsupervised use.
// Must complete before any Transform call; not safe to call
// concurrently.
func (b *VocabularyBuilder) Fit(corpus [][]string, labelCorpus [][]string) {
	seen := make(map[string]struct{})
	addWord := func(w string) {
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		if b.charFeature {
			for _, c := range w {
				b.chars.Add(string(c))
			}
		}
		b.words.Add(b.normalize(w))
	}

	for _, sent := range corpus {
		for _, w := range sent {
			addWord(w)
		}
	}
	extra := append([]string(nil), b.initialVocab...)
	sort.Strings(extra)
	for _, w := range extra {
		addWord(w)
	}

	for _, sent := range labelCorpus {
		for _, t := range sent {
			b.labels.Add(t)
		}
	}

	b.logger.Debug().
		Int("words", b.words.Len()).
		Int("chars", b.chars.Len()).
		Int("labels", b.labels.Len()).
		Msg("vocabulary fitted")
}

// fitted reports whether Fit has populated anything beyond the reserved
// entries.
func (b *VocabularyBuilder) fitted() bool {
	return b.words.Len() > 2
}

// Transform encodes corpus against the fitted vocabularies. Unknown
// words and characters map to the unknown id. labelCorpus may be nil;
// when given, each sentence's label sequence must match its word
// sequence in length, and every label must be known.
func (b *VocabularyBuilder) Transform(corpus [][]string, labelCorpus [][]string) (*Encoded, [][]int, error) {
	if !b.fitted() {
		return nil, nil, ErrNotFitted
	}

	enc := &Encoded{WordIDs: make([][]int, 0, len(corpus))}
	if b.charFeature {
		enc.CharIDs = make([][][]int, 0, len(corpus))
	}
	for _, sent := range corpus {
		wordIDs := make([]int, 0, len(sent))
		var charIDs [][]int
		if b.charFeature {
			charIDs = make([][]int, 0, len(sent))
		}
		for _, w := range sent {
			if b.charFeature {
				charIDs = append(charIDs, b.charIDs(w))
			}
			wordIDs = append(wordIDs, b.words.IDOrUnknown(b.normalize(w)))
		}
		enc.WordIDs = append(enc.WordIDs, wordIDs)
		if b.charFeature {
			enc.CharIDs = append(enc.CharIDs, charIDs)
		}
	}

	if labelCorpus == nil {
		return enc, nil, nil
	}
	labelIDs, err := b.encodeLabels(corpus, labelCorpus)
	if err != nil {
		return nil, nil, err
	}
	return enc, labelIDs, nil
}

func (b *VocabularyBuilder) charIDs(word string) []int {
	ids := make([]int, 0, len(word))
	for _, c := range word {
		ids = append(ids, b.chars.IDOrUnknown(string(c)))
	}
	return ids
}

func (b *VocabularyBuilder) encodeLabels(corpus [][]string, labelCorpus [][]string) ([][]int, error) {
	if len(labelCorpus) != len(corpus) {
		return nil, fmt.Errorf("%w: %d label sequences for %d sentences", ErrLengthMismatch, len(labelCorpus), len(corpus))
	}
	out := make([][]int, 0, len(labelCorpus))
	for i, sent := range labelCorpus {
		if len(sent) != len(corpus[i]) {
			return nil, fmt.Errorf("%w: sentence %d has %d words but %d labels", ErrLengthMismatch, i, len(corpus[i]), len(sent))
		}
		ids := make([]int, 0, len(sent))
		for _, t := range sent {
			id, ok := b.labels.ID(t)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, t)
			}
			ids = append(ids, id)
		}
		out = append(out, ids)
	}
	return out, nil
}

// FitTransform fits on corpus and labelCorpus, then transforms the same
// corpus. Equivalent to calling Fit then Transform.
func (b *VocabularyBuilder) FitTransform(corpus [][]string, labelCorpus [][]string) (*Encoded, [][]int, error) {
	b.Fit(corpus, labelCorpus)
	return b.Transform(corpus, labelCorpus)
}

// InverseTransform maps label id sequences back to label strings.
func (b *VocabularyBuilder) InverseTransform(labelIDs [][]int) ([][]string, error) {
	if b.labels.Len() <= 1 {
		return nil, ErrNotFitted
	}
	out := make([][]string, 0, len(labelIDs))
	for _, sent := range labelIDs {
		tokens := make([]string, 0, len(sent))
		for _, id := range sent {
			t, ok := b.labels.Token(id)
			if !ok {
				return nil, fmt.Errorf("%w: %d", ErrUnknownLabelID, id)
			}
			tokens = append(tokens, t)
		}
		out = append(out, tokens)
	}
	return out, nil
}

// LabelCount returns the number of distinct label ids, padding
// included. Use it to size a BatchPadder.
func (b *VocabularyBuilder) LabelCount() int {
	return b.labels.Len()
}

// WordCount returns the word vocabulary size, reserved entries
// included.
func (b *VocabularyBuilder) WordCount() int {
	return b.words.Len()
}

// CharCount returns the character vocabulary size, reserved entries
// included.
func (b *VocabularyBuilder) CharCount() int {
	return b.chars.Len()
}
