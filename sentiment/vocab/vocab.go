package vocab

import (
	"fmt"

	internal "github.com/ZanzyTHEbar/go-sentiment/sentiment"

	"github.com/armon/go-radix"
)

// Vocabulary is an immutable token -> id mapping. Ids are contiguous from 0
// with the reserved tokens seeded first: <unk> at 0, <pad> at 1. Corpus tokens
// follow in first-seen order. A Vocabulary is built once per training corpus
// and shared read-only by vectorization for every split.
type Vocabulary struct {
	tokens []string
	index  map[string]int64
	prefix *radix.Tree
}

// newVocabulary builds the lookup structures from an ordered token list.
// tokens[0] and tokens[1] must be the reserved pair.
func newVocabulary(tokens []string) (*Vocabulary, error) {
	if len(tokens) < 2 || tokens[0] != internal.UnknownToken || tokens[1] != internal.PaddingToken {
		return nil, fmt.Errorf("vocabulary must seed %q and %q at ids 0 and 1", internal.UnknownToken, internal.PaddingToken)
	}

	index := make(map[string]int64, len(tokens))
	tree := radix.New()
	for i, tok := range tokens {
		if _, dup := index[tok]; dup {
			return nil, fmt.Errorf("duplicate token %q at id %d", tok, i)
		}
		index[tok] = int64(i)
		tree.Insert(tok, int64(i))
	}

	return &Vocabulary{tokens: tokens, index: index, prefix: tree}, nil
}

// ID returns the id for token. Unknown tokens map to the reserved unknown id;
// out-of-vocabulary lookup is silent substitution, never an error.
func (v *Vocabulary) ID(token string) int64 {
	if id, ok := v.index[token]; ok {
		return id
	}
	return internal.UnknownID
}

// Has reports whether token was assigned its own id.
func (v *Vocabulary) Has(token string) bool {
	_, ok := v.index[token]
	return ok
}

// Token returns the token string for an id.
func (v *Vocabulary) Token(id int64) (string, bool) {
	if id < 0 || id >= int64(len(v.tokens)) {
		return "", false
	}
	return v.tokens[id], true
}

// Size returns the number of ids, reserved tokens included.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// Tokens returns a copy of the id-ordered token list.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

// PrefixEntry pairs a token with its id for prefix queries.
type PrefixEntry struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
}

// WithPrefix returns up to limit tokens sharing the given prefix, in
// lexicographic order. limit <= 0 means no limit. Used by the CLI and the
// serve debug endpoint for vocabulary inspection.
func (v *Vocabulary) WithPrefix(prefix string, limit int) []PrefixEntry {
	var out []PrefixEntry
	v.prefix.WalkPrefix(prefix, func(tok string, val interface{}) bool {
		out = append(out, PrefixEntry{Token: tok, ID: val.(int64)})
		return limit > 0 && len(out) >= limit
	})
	return out
}
