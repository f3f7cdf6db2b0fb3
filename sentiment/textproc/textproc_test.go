package textproc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicEnglishTokenize(t *testing.T) {
	tok := NewBasicEnglish()

	tokens, err := tok.Tokenize("You can now install TorchText using pip!")
	require.NoError(t, err)
	assert.Equal(t, []string{"you", "can", "now", "install", "torchtext", "using", "pip", "!"}, tokens)
}

func TestBasicEnglishPunctuation(t *testing.T) {
	tok := NewBasicEnglish()

	tokens, err := tok.Tokenize("Great movie, truly great. Loved it!")
	require.NoError(t, err)
	assert.Equal(t, []string{"great", "movie", ",", "truly", "great", ".", "loved", "it", "!"}, tokens)
}

func TestBasicEnglishEmpty(t *testing.T) {
	tok := NewBasicEnglish()

	tokens, err := tok.Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = tok.Tokenize("   \t\n  ")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestBigrams(t *testing.T) {
	grams := Bigrams([]string{"This", "film", "is", "terrible"})
	assert.Equal(t, []string{"This film", "film is", "is terrible"}, grams)
}

func TestBigramsShortInputs(t *testing.T) {
	assert.Nil(t, Bigrams(nil))
	assert.Nil(t, Bigrams([]string{}))
	assert.Nil(t, Bigrams([]string{"solo"}))
}

func TestBigramCountProperty(t *testing.T) {
	// For all token sequences of length >= 2, bigram count = length-1.
	for n := 2; n <= 32; n++ {
		tokens := make([]string, n)
		for i := range tokens {
			tokens[i] = fmt.Sprintf("tok%d", i)
		}
		assert.Len(t, Bigrams(tokens), n-1, "length %d", n)
	}
}

func TestWithBigramsAppendsInOrder(t *testing.T) {
	tokens := []string{"This", "film", "is", "terrible"}
	out := WithBigrams(tokens)

	assert.Equal(t, []string{
		"This", "film", "is", "terrible",
		"This film", "film is", "is terrible",
	}, out)

	// Original slice must not be mutated.
	assert.Equal(t, []string{"This", "film", "is", "terrible"}, tokens)
}

func TestWithBigramsNoDedup(t *testing.T) {
	out := WithBigrams([]string{"a", "b", "a", "b"})
	assert.Equal(t, []string{"a", "b", "a", "b", "a b", "b a", "a b"}, out)
}

func TestNewTokenizerSelection(t *testing.T) {
	tok, err := New("basic", "")
	require.NoError(t, err)
	assert.IsType(t, &BasicEnglish{}, tok)

	_, err = New("nope", "")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = New("wordpiece", "")
	assert.ErrorIs(t, err, ErrUnsupported)
}
