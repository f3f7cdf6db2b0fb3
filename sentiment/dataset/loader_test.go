package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LoaderTestSuite tests corpus loading from disk
type LoaderTestSuite struct {
	suite.Suite
	tempDir string
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

func (suite *LoaderTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "senti-loader-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	for _, dir := range []string{"pos", "neg"} {
		require.NoError(suite.T(), os.MkdirAll(filepath.Join(tempDir, dir), 0o755))
	}
}

func (suite *LoaderTestSuite) TearDownTest() {
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *LoaderTestSuite) writeReview(dir, name, text string) {
	path := filepath.Join(suite.tempDir, dir, name)
	require.NoError(suite.T(), os.WriteFile(path, []byte(text), 0o644))
}

func (suite *LoaderTestSuite) TestLoadDir() {
	suite.writeReview("pos", "0.txt", "a fine film")
	suite.writeReview("pos", "1.txt", "loved every minute")
	suite.writeReview("neg", "0.txt", "a terrible film")

	texts, err := LoadDir(context.Background(), suite.tempDir, "")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), texts, 3)

	// Deterministic order: neg before pos, filenames sorted within.
	assert.Equal(suite.T(), LabeledText{Text: "a terrible film", Label: LabelNegative}, texts[0])
	assert.Equal(suite.T(), LabeledText{Text: "a fine film", Label: LabelPositive}, texts[1])
	assert.Equal(suite.T(), LabeledText{Text: "loved every minute", Label: LabelPositive}, texts[2])
}

func (suite *LoaderTestSuite) TestLoadDirSkipsNonTxt() {
	suite.writeReview("pos", "0.txt", "good")
	suite.writeReview("pos", "notes.md", "not a review")

	texts, err := LoadDir(context.Background(), suite.tempDir, "")
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), texts, 1)
}

func (suite *LoaderTestSuite) TestLoadDirHonorsIgnoreFile() {
	suite.writeReview("pos", "keep.txt", "good")
	suite.writeReview("pos", "skip.txt", "good but ignored")
	suite.writeReview("neg", "keep.txt", "bad")

	ignorePath := filepath.Join(suite.tempDir, ".corpusignore")
	require.NoError(suite.T(), os.WriteFile(ignorePath, []byte("pos/skip.txt\n"), 0o644))

	texts, err := LoadDir(context.Background(), suite.tempDir, ".corpusignore")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), texts, 2)
	for _, lt := range texts {
		assert.NotEqual(suite.T(), "good but ignored", lt.Text)
	}
}

func (suite *LoaderTestSuite) TestLoadDirMissingLabelDir() {
	require.NoError(suite.T(), os.RemoveAll(filepath.Join(suite.tempDir, "pos")))

	_, err := LoadDir(context.Background(), suite.tempDir, "")
	assert.Error(suite.T(), err)
}

func (suite *LoaderTestSuite) TestLoadTSV() {
	content := "1\ta fine film\n# comment line\n\n0\ta terrible film\n"
	path := filepath.Join(suite.tempDir, "corpus.tsv")
	require.NoError(suite.T(), os.WriteFile(path, []byte(content), 0o644))

	texts, err := LoadTSV(path)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), texts, 2)
	assert.Equal(suite.T(), LabeledText{Text: "a fine film", Label: LabelPositive}, texts[0])
	assert.Equal(suite.T(), LabeledText{Text: "a terrible film", Label: LabelNegative}, texts[1])
}

func (suite *LoaderTestSuite) TestLoadTSVBadRecords() {
	cases := map[string]string{
		"no-tab":    "1 a fine film\n",
		"bad-label": "2\tsome text\n",
	}
	for name, content := range cases {
		path := filepath.Join(suite.tempDir, name+".tsv")
		require.NoError(suite.T(), os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadTSV(path)
		assert.Error(suite.T(), err, name)
	}
}
