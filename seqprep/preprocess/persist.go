package preprocess

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ZanzyTHEbar/seqprep/seqprep/vocab"
)

// Builder snapshots are a minimal versioned binary format (little-endian):
// [magic 'SQPV'] [u32 version] [flags lowercase numNorm charFeature]
// [initial vocabulary dict] [word dict] [char dict] [label dict]
// where a dict is [u32 count] then per token [u32 len][bytes] in id order.
const (
	snapshotMagic   = "SQPV"
	snapshotVersion = 1
)

// Save writes the full builder state (configuration plus all three
// vocabularies) to path. Load reconstructs a functionally identical
// builder: same ids for the same tokens, same flags.
func (b *VocabularyBuilder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var werr error
	var u32 = func(v uint32) {
		if werr == nil {
			werr = binary.Write(w, binary.LittleEndian, v)
		}
	}
	var boolean = func(v bool) {
		c := byte(0)
		if v {
			c = 1
		}
		if werr == nil {
			werr = w.WriteByte(c)
		}
	}
	var str = func(s string) {
		u32(uint32(len(s)))
		if werr == nil {
			_, werr = w.WriteString(s)
		}
	}
	var dict = func(tokens []string) {
		u32(uint32(len(tokens)))
		for _, t := range tokens {
			str(t)
		}
	}

	if _, err := w.WriteString(snapshotMagic); err != nil {
		return err
	}
	u32(snapshotVersion)
	boolean(b.lowercase)
	boolean(b.numberNormalize)
	boolean(b.charFeature)
	dict(b.initialVocab)
	dict(b.words.Tokens())
	dict(b.chars.Tokens())
	dict(b.labels.Tokens())
	if werr != nil {
		return werr
	}
	return w.Flush()
}

// LoadVocabularyBuilder reads a snapshot persisted with Save.
func LoadVocabularyBuilder(path string) (*VocabularyBuilder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, err
	}
	if string(magic) != snapshotMagic {
		return nil, fmt.Errorf("not a vocabulary snapshot: bad magic %q", magic)
	}
	version, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported vocabulary snapshot version %d", version)
	}
	lowercase, err := readBool(r)
	if err != nil {
		return nil, err
	}
	numberNormalize, err := readBool(r)
	if err != nil {
		return nil, err
	}
	charFeature, err := readBool(r)
	if err != nil {
		return nil, err
	}
	initialVocab, err := readDict(r)
	if err != nil {
		return nil, err
	}
	wordTokens, err := readDict(r)
	if err != nil {
		return nil, err
	}
	charTokens, err := readDict(r)
	if err != nil {
		return nil, err
	}
	labelTokens, err := readDict(r)
	if err != nil {
		return nil, err
	}

	b := NewVocabularyBuilder(
		WithLowercase(lowercase),
		WithNumberNormalize(numberNormalize),
		WithCharFeature(charFeature),
		WithInitialVocabulary(initialVocab),
	)
	if b.words, err = vocab.Restore(wordTokens, true); err != nil {
		return nil, fmt.Errorf("word vocabulary: %w", err)
	}
	if b.chars, err = vocab.Restore(charTokens, true); err != nil {
		return nil, fmt.Errorf("char vocabulary: %w", err)
	}
	if b.labels, err = vocab.Restore(labelTokens, false); err != nil {
		return nil, fmt.Errorf("label vocabulary: %w", err)
	}
	return b, nil
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readBool(r *bufio.Reader) (bool, error) {
	b, err := r.ReadByte()
	return b == 1, err
}

func readDict(r *bufio.Reader) ([]string, error) {
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	tokens := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		n, err := readU32(r)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		tokens = append(tokens, string(buf))
	}
	return tokens, nil
}
