package textproc

import (
	"fmt"
	"strings"
	"unicode"
)

// Tokenizer converts raw text to an ordered sequence of tokens
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// ErrUnsupported indicates the tokenizer could not be initialized
var ErrUnsupported = fmt.Errorf("unsupported tokenizer configuration")

// New selects a tokenizer by name (e.g., "basic", "wordpiece").
// vocabPath is only consulted for subword tokenizers.
func New(name, vocabPath string) (Tokenizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "basic", "":
		return NewBasicEnglish(), nil
	case "wordpiece", "sugarme":
		return NewSugarWordPiece(vocabPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
}

// BasicEnglish lowercases input and splits on whitespace, breaking
// punctuation out into standalone tokens. It is the default tokenizer for
// word-level training and never fails.
type BasicEnglish struct{}

func NewBasicEnglish() *BasicEnglish {
	return &BasicEnglish{}
}

func (b *BasicEnglish) Tokenize(text string) ([]string, error) {
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/4)
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		case unicode.IsPunct(r):
			sb.WriteByte(' ')
			sb.WriteRune(unicode.ToLower(r))
			sb.WriteByte(' ')
		default:
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Fields(sb.String()), nil
}
