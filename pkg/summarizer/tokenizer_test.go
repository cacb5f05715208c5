package summarizer_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/textsum/pkg/summarizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"amanda", "i", "baked", "cookies", "don't", "2"},
		summarizer.Words("Amanda: I baked  cookies. Don't  2!"))
}

func TestBuildTokenizer_Deterministic(t *testing.T) {
	texts := []string{"b a a", "c b a"}

	t1 := summarizer.BuildTokenizer("words", texts)
	t2 := summarizer.BuildTokenizer("words", texts)

	j1, err := json.Marshal(t1)
	require.NoError(t, err)
	j2, err := json.Marshal(t2)
	require.NoError(t, err)
	assert.Equal(t, j1, j2)
	assert.JSONEq(t, `{"name":"words","tokens":["<pad>","</s>","<unk>","<sep>","a","b","c"]}`, string(j1))
}

func TestTokenizer_Encode(t *testing.T) {
	tok := summarizer.BuildTokenizer("words", []string{"a b c"})

	assert.Equal(t, []int{4, 5, 2, summarizer.EOSID}, tok.Encode("a b zzz", 0))
	assert.Equal(t, []int{4, summarizer.EOSID}, tok.Encode("a b c", 2), "truncated to maxLen including EOS")
}

func TestTokenizer_EncodeDialogue(t *testing.T) {
	tok := summarizer.BuildTokenizer("words", []string{"a b c"})

	ids := tok.EncodeDialogue("a b\n\nc", 0)
	assert.Equal(t, []int{4, 5, summarizer.SepID, 6, summarizer.EOSID}, ids)
	assert.Equal(t, "a b\nc", tok.Decode(ids))
}

func TestLoadTokenizer(t *testing.T) {
	tok := summarizer.BuildTokenizer("words", []string{"hello world"})
	data, err := json.Marshal(tok)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), summarizer.TokenizerFile)
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := summarizer.LoadTokenizer(path)
	require.NoError(t, err)
	assert.Equal(t, tok.Size(), loaded.Size())
	assert.Equal(t, "words", loaded.Name())
	assert.Equal(t, tok.Encode("hello world", 0), loaded.Encode("hello world", 0))
}

func TestLoadTokenizer_RejectsMissingSpecials(t *testing.T) {
	path := filepath.Join(t.TempDir(), summarizer.TokenizerFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","tokens":["a","b","c","d","e"]}`), 0644))

	_, err := summarizer.LoadTokenizer(path)
	assert.Error(t, err)
}
