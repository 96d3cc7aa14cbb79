package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_ReservedEntries(t *testing.T) {
	t.Run("word and char vocabularies reserve PAD and UNK", func(t *testing.T) {
		v := New()
		id, ok := v.ID(PadToken)
		require.True(t, ok)
		assert.Equal(t, PadID, id, "PAD must always be id 0")

		id, ok = v.ID(UnkToken)
		require.True(t, ok)
		assert.Equal(t, UnkID, id, "UNK must always be id 1")
		assert.True(t, v.HasUnknown())
		assert.Equal(t, 2, v.Len())
	})

	t.Run("label vocabulary reserves only PAD", func(t *testing.T) {
		v := NewLabelVocabulary()
		id, ok := v.ID(PadToken)
		require.True(t, ok)
		assert.Equal(t, PadID, id)

		_, ok = v.ID(UnkToken)
		assert.False(t, ok, "label vocabulary must not carry an unknown entry")
		assert.False(t, v.HasUnknown())
		assert.Equal(t, 1, v.Len())
	})
}

func TestVocabulary_AddAssignsStableIncreasingIDs(t *testing.T) {
	v := New()
	first := v.Add("cat")
	second := v.Add("dog")
	assert.Equal(t, 2, first, "first new token takes the id after the reserved entries")
	assert.Equal(t, 3, second)

	// Re-adding never reassigns
	assert.Equal(t, first, v.Add("cat"))
	assert.Equal(t, 4, v.Len())
}

func TestVocabulary_Lookups(t *testing.T) {
	v := New()
	v.Add("cat")

	t.Run("IDOrUnknown falls back to UNK", func(t *testing.T) {
		assert.Equal(t, 2, v.IDOrUnknown("cat"))
		assert.Equal(t, UnkID, v.IDOrUnknown("never-seen"))
	})

	t.Run("Token inverts ID", func(t *testing.T) {
		tok, ok := v.Token(2)
		require.True(t, ok)
		assert.Equal(t, "cat", tok)

		_, ok = v.Token(99)
		assert.False(t, ok)
		_, ok = v.Token(-1)
		assert.False(t, ok)
	})
}

func TestVocabulary_RestoreRoundTrip(t *testing.T) {
	v := New()
	v.Add("cat")
	v.Add("dog")

	restored, err := Restore(v.Tokens(), true)
	require.NoError(t, err)
	assert.Equal(t, v.Len(), restored.Len())
	for _, tok := range []string{PadToken, UnkToken, "cat", "dog"} {
		want, _ := v.ID(tok)
		got, ok := restored.ID(tok)
		require.True(t, ok)
		assert.Equal(t, want, got, "restored vocabulary must keep id for %q", tok)
	}
}

func TestVocabulary_RestoreRejectsCorruptSnapshots(t *testing.T) {
	_, err := Restore([]string{"not-pad", UnkToken}, true)
	assert.Error(t, err, "reserved prefix must be intact")

	_, err = Restore([]string{PadToken, UnkToken, "dup", "dup"}, true)
	assert.Error(t, err, "duplicate tokens must be rejected")

	_, err = Restore(nil, false)
	assert.Error(t, err)
}
