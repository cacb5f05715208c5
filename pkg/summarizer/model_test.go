package summarizer_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/textsum/pkg/dataset"
	"github.com/aretw0/textsum/pkg/summarizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAll(tok *summarizer.Tokenizer, records []dataset.Record) []dataset.Encoded {
	out := make([]dataset.Encoded, 0, len(records))
	for _, r := range records {
		out = append(out, dataset.Encoded{
			ID:       r.ID,
			InputIDs: tok.EncodeDialogue(r.Dialogue, 0),
			Labels:   tok.Encode(r.Summary, 0),
		})
	}
	return out
}

var trainingRecords = []dataset.Record{
	{ID: "1", Dialogue: "Ann: hi\nBob: the party is on friday\nAnn: ok", Summary: "The party is on friday."},
	{ID: "2", Dialogue: "Cid: hello\nDan: the meeting is on monday\nCid: fine", Summary: "The meeting is on monday."},
	{ID: "3", Dialogue: "Eve: hey\nFay: lunch is at noon\nEve: great", Summary: "Lunch is at noon."},
}

func trainingTexts() []string {
	var texts []string
	for _, r := range trainingRecords {
		texts = append(texts, r.Dialogue, r.Summary)
	}
	return texts
}

func TestTrain_LearnsSalientTokens(t *testing.T) {
	tok := summarizer.BuildTokenizer("words", trainingTexts())
	encoded := encodeAll(tok, trainingRecords)

	var steps int
	model, err := summarizer.Train(encoded, tok.Size(), summarizer.TrainOptions{
		Checkpoint: "extractive",
		Epochs:     5,
		OnStep:     func(int, float64) { steps++ },
	})
	require.NoError(t, err)

	assert.Equal(t, 15, model.Steps)
	assert.Equal(t, steps, model.Steps)
	assert.Len(t, model.Weights, tok.Size())

	party := tok.Encode("party", 0)[0]
	hi := tok.Encode("hi", 0)[0]
	assert.Greater(t, model.Weights[party], model.Weights[hi])

	summary, err := model.Summarize(tok.EncodeDialogue(trainingRecords[0].Dialogue, 0))
	require.NoError(t, err)
	assert.Equal(t, "bob the party is on friday", tok.Decode(summary))
}

func TestTrain_Deterministic(t *testing.T) {
	tok := summarizer.BuildTokenizer("words", trainingTexts())
	encoded := encodeAll(tok, trainingRecords)
	opts := summarizer.TrainOptions{Epochs: 3, WarmupSteps: 2, WeightDecay: 0.01, BatchSize: 2}

	m1, err := summarizer.Train(encoded, tok.Size(), opts)
	require.NoError(t, err)
	m2, err := summarizer.Train(encoded, tok.Size(), opts)
	require.NoError(t, err)

	j1, _ := json.Marshal(m1)
	j2, _ := json.Marshal(m2)
	assert.Equal(t, j1, j2)
	assert.Equal(t, 6, m1.Steps, "two records per step over three epochs of three records")
}

func TestTrain_Errors(t *testing.T) {
	_, err := summarizer.Train(nil, 10, summarizer.TrainOptions{})
	assert.True(t, errors.Is(err, summarizer.ErrEmptyDataset))

	_, err = summarizer.Train([]dataset.Encoded{{ID: "x", InputIDs: []int{99}, Labels: []int{1}}}, 10, summarizer.TrainOptions{})
	assert.True(t, errors.Is(err, summarizer.ErrIncompatible))
}

func TestModel_SummarizeKeepsOneUtterance(t *testing.T) {
	model := &summarizer.Model{VocabSize: 6, LengthRatio: 0, Weights: []float64{0, 0, 0, 0, 0.2, 0.9}}

	out, err := model.Summarize([]int{4, summarizer.SepID, 5, summarizer.EOSID})
	require.NoError(t, err)
	assert.Equal(t, []int{5, summarizer.EOSID}, out)

	_, err = model.Summarize([]int{7})
	assert.True(t, errors.Is(err, summarizer.ErrIncompatible))
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, summarizer.ModelFile)

	require.NoError(t, os.WriteFile(path, []byte(`{"vocab_size":5,"weights":[0,0,0,0,1],"length_ratio":0.5}`), 0644))
	m, err := summarizer.LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.LengthRatio)

	require.NoError(t, os.WriteFile(path, []byte(`{"vocab_size":9,"weights":[0]}`), 0644))
	_, err = summarizer.LoadModel(path)
	assert.Error(t, err)
}
