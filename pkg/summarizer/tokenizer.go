package summarizer

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
)

// Special token ids. Regular words start at FirstWordID.
const (
	PadID = iota
	EOSID
	UnkID
	SepID
	FirstWordID
)

var specialTokens = []string{"<pad>", "</s>", "<unk>", "<sep>"}

// TokenizerFile is the file name a tokenizer is saved under.
const TokenizerFile = "tokenizer.json"

// Tokenizer maps lower-cased words to ids with a fixed, frequency-ordered vocabulary.
type Tokenizer struct {
	name  string
	words []string
	index map[string]int
}

type tokenizerFile struct {
	Name   string   `json:"name"`
	Tokens []string `json:"tokens"`
}

// Words splits text into lower-cased word tokens. Letters, digits and apostrophes form words.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// BuildTokenizer builds a vocabulary over texts: special tokens first, then words by
// descending frequency with ties broken lexicographically. Equal input yields an equal vocabulary.
func BuildTokenizer(name string, texts []string) *Tokenizer {
	freq := make(map[string]int)
	for _, text := range texts {
		for _, w := range Words(text) {
			freq[w]++
		}
	}
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	return newTokenizer(name, append(append([]string{}, specialTokens...), words...))
}

func newTokenizer(name string, tokens []string) *Tokenizer {
	index := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		index[tok] = i
	}
	return &Tokenizer{name: name, words: tokens, index: index}
}

// Name returns the tokenizer name recorded at build time.
func (t *Tokenizer) Name() string { return t.name }

// Size returns the vocabulary size including special tokens.
func (t *Tokenizer) Size() int { return len(t.words) }

// Encode converts text to ids terminated by EOSID, truncated so the result has at most maxLen ids.
func (t *Tokenizer) Encode(text string, maxLen int) []int {
	ids := t.ids(Words(text))
	return terminate(ids, maxLen)
}

// EncodeDialogue encodes each line of dialogue and joins the lines with SepID.
func (t *Tokenizer) EncodeDialogue(dialogue string, maxLen int) []int {
	var ids []int
	for _, line := range strings.Split(dialogue, "\n") {
		words := Words(line)
		if len(words) == 0 {
			continue
		}
		if len(ids) > 0 {
			ids = append(ids, SepID)
		}
		ids = append(ids, t.ids(words)...)
	}
	return terminate(ids, maxLen)
}

// Decode converts ids back to space-separated words, rendering SepID as a newline
// and dropping padding and EOS.
func (t *Tokenizer) Decode(ids []int) string {
	var sb strings.Builder
	for _, id := range ids {
		switch {
		case id == PadID || id == EOSID:
			continue
		case id == SepID:
			sb.WriteString("\n")
			continue
		case id < 0 || id >= len(t.words):
			id = UnkID
		}
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.words[id])
	}
	return sb.String()
}

func (t *Tokenizer) ids(words []string) []int {
	ids := make([]int, 0, len(words))
	for _, w := range words {
		id, ok := t.index[w]
		if !ok {
			id = UnkID
		}
		ids = append(ids, id)
	}
	return ids
}

func terminate(ids []int, maxLen int) []int {
	if maxLen > 0 && len(ids) > maxLen-1 {
		ids = ids[:max(maxLen-1, 0)]
	}
	return append(ids, EOSID)
}

// MarshalJSON encodes the tokenizer in its saved form.
func (t *Tokenizer) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenizerFile{Name: t.name, Tokens: t.words})
}

// LoadTokenizer reads a tokenizer saved with MarshalJSON.
func LoadTokenizer(path string) (*Tokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f tokenizerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer %s: %w", path, err)
	}
	if len(f.Tokens) < FirstWordID {
		return nil, fmt.Errorf("tokenizer %s: vocabulary is missing special tokens", path)
	}
	for i, tok := range specialTokens {
		if f.Tokens[i] != tok {
			return nil, fmt.Errorf("tokenizer %s: token %d is %q, want %q", path, i, f.Tokens[i], tok)
		}
	}
	return newTokenizer(f.Name, f.Tokens), nil
}
