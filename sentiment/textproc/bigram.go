package textproc

// Bigrams returns every consecutive token pair joined with a single space,
// in left-to-right order. Inputs shorter than two tokens yield nil.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, len(tokens)-1)
	for i := 0; i < len(tokens)-1; i++ {
		out[i] = tokens[i] + " " + tokens[i+1]
	}
	return out
}

// WithBigrams appends the bigrams of tokens to a copy of tokens. No
// de-duplication is performed; repeated pairs stay repeated.
func WithBigrams(tokens []string) []string {
	grams := Bigrams(tokens)
	out := make([]string, 0, len(tokens)+len(grams))
	out = append(out, tokens...)
	out = append(out, grams...)
	return out
}
