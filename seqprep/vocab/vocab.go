package vocab

import (
	"fmt"
)

// Reserved tokens shared by every vocabulary. PadID is the universal
// padding sentinel; UnkID is the fallback for tokens absent at encode
// time and exists only in vocabularies built with an unknown entry.
const (
	PadToken = "<pad>"
	UnkToken = "<unk>"

	PadID = 0
	UnkID = 1
)

// Vocabulary maps token strings to stable integer ids and back. Ids are
// assigned in first-seen order and never change once assigned. After the
// fit phase a Vocabulary is read-only; concurrent lookups are safe as
// long as no Add is in flight.
type Vocabulary struct {
	tokens     []string
	index      map[string]int
	hasUnknown bool
}

// New creates a vocabulary with both reserved entries, suitable for
// words and characters.
func New() *Vocabulary {
	v := &Vocabulary{index: make(map[string]int)}
	v.hasUnknown = true
	v.Add(PadToken)
	v.Add(UnkToken)
	return v
}

// NewLabelVocabulary creates a vocabulary with only the padding entry.
// Labels are assumed fully covered by the training set, so there is no
// unknown fallback.
func NewLabelVocabulary() *Vocabulary {
	v := &Vocabulary{index: make(map[string]int)}
	v.Add(PadToken)
	return v
}

// Restore rebuilds a vocabulary from a token list in id order, as
// produced by Tokens. The reserved prefix must be intact.
func Restore(tokens []string, hasUnknown bool) (*Vocabulary, error) {
	reserved := []string{PadToken}
	if hasUnknown {
		reserved = append(reserved, UnkToken)
	}
	if len(tokens) < len(reserved) {
		return nil, fmt.Errorf("vocabulary snapshot too short: %d tokens", len(tokens))
	}
	for i, want := range reserved {
		if tokens[i] != want {
			return nil, fmt.Errorf("vocabulary snapshot corrupt: id %d is %q, want %q", i, tokens[i], want)
		}
	}
	v := &Vocabulary{index: make(map[string]int, len(tokens)), hasUnknown: hasUnknown}
	for _, tok := range tokens {
		if _, ok := v.index[tok]; ok {
			return nil, fmt.Errorf("vocabulary snapshot corrupt: duplicate token %q", tok)
		}
		v.Add(tok)
	}
	return v, nil
}

// Add assigns the next id to token if unseen and returns the token's id.
func (v *Vocabulary) Add(token string) int {
	if id, ok := v.index[token]; ok {
		return id
	}
	id := len(v.tokens)
	v.tokens = append(v.tokens, token)
	v.index[token] = id
	return id
}

// ID returns the id for token and whether the token is known.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, ok := v.index[token]
	return id, ok
}

// IDOrUnknown returns the id for token, falling back to UnkID for
// unseen tokens. Only valid on vocabularies built with an unknown entry.
func (v *Vocabulary) IDOrUnknown(token string) int {
	if id, ok := v.index[token]; ok {
		return id
	}
	return UnkID
}

// Token returns the token string for id and whether the id is in range.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id < 0 || id >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Len returns the number of tokens, reserved entries included.
func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

// HasUnknown reports whether the vocabulary carries an unknown fallback.
func (v *Vocabulary) HasUnknown() bool {
	return v.hasUnknown
}

// Tokens returns a copy of the token list in id order.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}
