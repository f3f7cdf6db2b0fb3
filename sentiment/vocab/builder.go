package vocab

import (
	"sort"

	internal "github.com/ZanzyTHEbar/go-sentiment/sentiment"

	roaring "github.com/RoaringBitmap/roaring"
)

// Options controls corpus-frequency pruning during Build. The zero value
// keeps every token seen.
type Options struct {
	// MinDocFreq drops tokens appearing in fewer than this many examples.
	// Values below 2 keep everything.
	MinDocFreq int
	// MaxSize caps the vocabulary at this many corpus tokens (the reserved
	// pair does not count). Zero means unbounded. When the cap binds, the
	// most document-frequent tokens survive, ties broken by first sighting.
	MaxSize int
}

// Builder accumulates tokenized examples and produces an immutable
// Vocabulary. Token -> bitmap of example indices tracks document frequency;
// cardinality of the bitmap is the pruning signal.
type Builder struct {
	opts     Options
	order    []string
	postings map[string]*roaring.Bitmap
	examples uint32
}

func NewBuilder(opts Options) *Builder {
	return &Builder{
		opts:     opts,
		postings: make(map[string]*roaring.Bitmap),
	}
}

// AddExample registers one tokenized example. First sighting of a token
// fixes its position in the id order.
func (b *Builder) AddExample(tokens []string) {
	idx := b.examples
	b.examples++
	for _, tok := range tokens {
		bm, ok := b.postings[tok]
		if !ok {
			bm = roaring.New()
			b.postings[tok] = bm
			b.order = append(b.order, tok)
		}
		bm.Add(idx)
	}
}

// Examples returns how many examples have been added.
func (b *Builder) Examples() int {
	return int(b.examples)
}

// DocFreq returns the number of distinct examples containing token.
func (b *Builder) DocFreq(token string) int {
	bm, ok := b.postings[token]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// Build freezes the accumulated tokens into a Vocabulary. Reserved tokens
// take ids 0 and 1; survivors of pruning keep their first-seen relative
// order, so repeated builds over the same corpus yield identical ids.
func (b *Builder) Build() (*Vocabulary, error) {
	survivors := b.order
	if b.opts.MinDocFreq > 1 {
		kept := make([]string, 0, len(survivors))
		for _, tok := range survivors {
			if b.DocFreq(tok) >= b.opts.MinDocFreq {
				kept = append(kept, tok)
			}
		}
		survivors = kept
	}

	if b.opts.MaxSize > 0 && len(survivors) > b.opts.MaxSize {
		// Rank by document frequency to decide who stays, then restore
		// first-seen order for id assignment.
		firstSeen := make(map[string]int, len(survivors))
		for i, tok := range survivors {
			firstSeen[tok] = i
		}
		ranked := make([]string, len(survivors))
		copy(ranked, survivors)
		sort.SliceStable(ranked, func(i, j int) bool {
			fi, fj := b.DocFreq(ranked[i]), b.DocFreq(ranked[j])
			if fi != fj {
				return fi > fj
			}
			return firstSeen[ranked[i]] < firstSeen[ranked[j]]
		})
		ranked = ranked[:b.opts.MaxSize]
		sort.SliceStable(ranked, func(i, j int) bool {
			return firstSeen[ranked[i]] < firstSeen[ranked[j]]
		})
		survivors = ranked
	}

	tokens := make([]string, 0, len(survivors)+2)
	tokens = append(tokens, internal.UnknownToken, internal.PaddingToken)
	for _, tok := range survivors {
		// The reserved pair never re-enters from corpus text.
		if tok == internal.UnknownToken || tok == internal.PaddingToken {
			continue
		}
		tokens = append(tokens, tok)
	}

	return newVocabulary(tokens)
}

// Build is the pure convenience form: one pass over a tokenized corpus into
// an immutable Vocabulary.
func Build(examples [][]string, opts Options) (*Vocabulary, error) {
	b := NewBuilder(opts)
	for _, toks := range examples {
		b.AddExample(toks)
	}
	return b.Build()
}
