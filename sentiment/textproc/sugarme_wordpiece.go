package textproc

import (
	"fmt"
	"os"
	"path/filepath"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
)

// SugarWordPiece wraps sugarme/tokenizer WordPiece (BERT-style). The subword
// pieces it emits feed the same vocabulary builder as word-level tokens; the
// WordPiece vocab file only drives segmentation, not id assignment.
type SugarWordPiece struct {
	t *tk.Tokenizer
}

// NewSugarWordPiece loads vocab.txt and builds a BERT WordPiece tokenizer
func NewSugarWordPiece(vocabPath string) (*SugarWordPiece, error) {
	if vocabPath == "" {
		return nil, fmt.Errorf("%w: wordpiece tokenizer requires a vocab file", ErrUnsupported)
	}

	// Prefer initializing WordPiece from a vocab file to avoid nil-map panics
	var wp wordpiece.WordPiece
	if fi, err := os.Stat(vocabPath); err == nil && !fi.IsDir() {
		if nw, err := wordpiece.NewWordPieceFromFile(vocabPath, "[UNK]"); err == nil {
			wp = nw
		} else {
			builder := wordpiece.NewWordPieceBuilder().Files(vocabPath)
			wp = builder.Build()
		}
	} else {
		vocabFile := filepath.Join(vocabPath, "vocab.txt")
		if fi2, err := os.Stat(vocabFile); err == nil && !fi2.IsDir() {
			if nw, err := wordpiece.NewWordPieceFromFile(vocabFile, "[UNK]"); err == nil {
				wp = nw
			} else {
				builder := wordpiece.NewWordPieceBuilder().Files(vocabFile)
				wp = builder.Build()
			}
		} else {
			return nil, fmt.Errorf("wordpiece vocab not found at %s", vocabPath)
		}
	}

	t := tk.NewTokenizer(wp)

	// Basic normalizer and pre-tokenizer similar to BERT
	t.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	return &SugarWordPiece{t: t}, nil
}

func (s *SugarWordPiece) Tokenize(text string) ([]string, error) {
	enc, err := s.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(text)), false)
	if err != nil {
		return nil, err
	}
	return enc.GetTokens(), nil
}
