package summarizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/aretw0/textsum/pkg/dataset"
)

// ModelFile is the file name a model is saved under inside its directory.
const ModelFile = "model.json"

// ErrEmptyDataset is returned when training receives no usable record.
var ErrEmptyDataset = errors.New("training dataset is empty")

// ErrIncompatible is returned when input ids fall outside the model vocabulary.
var ErrIncompatible = errors.New("input is incompatible with the model vocabulary")

// Model is an extractive summarizer: each token carries a salience weight and a summary
// keeps the highest scoring utterances within a learned length budget.
type Model struct {
	Checkpoint  string    `json:"checkpoint"`
	VocabSize   int       `json:"vocab_size"`
	LengthRatio float64   `json:"length_ratio"`
	Steps       int       `json:"steps"`
	Weights     []float64 `json:"weights"`
}

// TrainOptions are the hyperparameters honoured by Train.
type TrainOptions struct {
	Checkpoint                string
	Epochs                    int
	LearningRate              float64
	WarmupSteps               int
	WeightDecay               float64
	BatchSize                 int
	GradientAccumulationSteps int
	// OnStep is called after every optimizer step with the step number and mean absolute update.
	OnStep func(step int, delta float64)
}

const defaultLearningRate = 0.5

// Train fits token weights towards "appears in the reference summary" over Epochs passes.
// Updates are accumulated over BatchSize*GradientAccumulationSteps records, the learning rate
// ramps linearly over WarmupSteps and WeightDecay shrinks weights towards zero.
// Training is deterministic for equal records and options.
func Train(records []dataset.Encoded, vocabSize int, opts TrainOptions) (*Model, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	if vocabSize < FirstWordID {
		return nil, fmt.Errorf("vocabulary size %d is smaller than the special token set", vocabSize)
	}
	opts = withTrainDefaults(opts)

	weights := make([]float64, vocabSize)
	for i := FirstWordID; i < vocabSize; i++ {
		weights[i] = 0.5
	}
	grad := make([]float64, vocabSize)
	seen := make([]int, vocabSize)

	var ratioSum float64
	var ratioN int
	for _, rec := range records {
		if err := checkIDs(rec.InputIDs, vocabSize); err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if err := checkIDs(rec.Labels, vocabSize); err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		in, out := countWords(rec.InputIDs), countWords(rec.Labels)
		if in > 0 {
			ratioSum += math.Min(1, float64(out)/float64(in))
			ratioN++
		}
	}
	if ratioN == 0 {
		return nil, ErrEmptyDataset
	}

	accumulate := opts.BatchSize * opts.GradientAccumulationSteps
	step, pending := 0, 0
	apply := func() {
		step++
		lr := opts.LearningRate
		if opts.WarmupSteps > 0 && step < opts.WarmupSteps {
			lr *= float64(step) / float64(opts.WarmupSteps)
		}
		var delta float64
		var touched int
		for id, n := range seen {
			if n == 0 {
				continue
			}
			update := lr * (grad[id]/float64(n) - opts.WeightDecay*weights[id])
			weights[id] = clamp01(weights[id] + update)
			delta += math.Abs(update)
			touched++
			grad[id], seen[id] = 0, 0
		}
		if opts.OnStep != nil && touched > 0 {
			opts.OnStep(step, delta/float64(touched))
		}
		pending = 0
	}

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for _, rec := range records {
			inSummary := make(map[int]bool)
			for _, id := range rec.Labels {
				if id >= FirstWordID {
					inSummary[id] = true
				}
			}
			visited := make(map[int]bool)
			for _, id := range rec.InputIDs {
				if id < FirstWordID || visited[id] {
					continue
				}
				visited[id] = true
				target := 0.0
				if inSummary[id] {
					target = 1
				}
				grad[id] += target - weights[id]
				seen[id]++
			}
			pending++
			if pending >= accumulate {
				apply()
			}
		}
		if pending > 0 {
			apply()
		}
	}

	return &Model{
		Checkpoint:  opts.Checkpoint,
		VocabSize:   vocabSize,
		LengthRatio: ratioSum / float64(ratioN),
		Steps:       step,
		Weights:     weights,
	}, nil
}

func withTrainDefaults(opts TrainOptions) TrainOptions {
	if opts.Epochs < 1 {
		opts.Epochs = 1
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = defaultLearningRate
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	if opts.GradientAccumulationSteps < 1 {
		opts.GradientAccumulationSteps = 1
	}
	return opts
}

// Summarize selects utterances of inputIDs (separated by SepID) by mean token weight until the
// length budget is used, and returns them in their original order terminated by EOSID.
// At least one utterance is always kept.
func (m *Model) Summarize(inputIDs []int) ([]int, error) {
	if err := checkIDs(inputIDs, m.VocabSize); err != nil {
		return nil, err
	}

	type utterance struct {
		index int
		ids   []int
		score float64
	}
	var utts []utterance
	var current []int
	total := 0
	flush := func() {
		if len(current) == 0 {
			return
		}
		var sum float64
		for _, id := range current {
			sum += m.Weights[id]
		}
		utts = append(utts, utterance{index: len(utts), ids: current, score: sum / float64(len(current))})
		total += len(current)
		current = nil
	}
	for _, id := range inputIDs {
		switch {
		case id == SepID:
			flush()
		case id >= UnkID:
			current = append(current, id)
		}
	}
	flush()
	if len(utts) == 0 {
		return []int{EOSID}, nil
	}

	budget := int(math.Round(m.LengthRatio * float64(total)))
	ranked := make([]utterance, len(utts))
	copy(ranked, utts)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	keep := make([]bool, len(utts))
	used := 0
	for i, u := range ranked {
		if i > 0 && used+len(u.ids) > budget {
			continue
		}
		keep[u.index] = true
		used += len(u.ids)
	}

	var out []int
	for _, u := range utts {
		if !keep[u.index] {
			continue
		}
		if len(out) > 0 {
			out = append(out, SepID)
		}
		out = append(out, u.ids...)
	}
	return append(out, EOSID), nil
}

// LoadModel reads a model written by Save.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	if m.VocabSize != len(m.Weights) || m.VocabSize < FirstWordID {
		return nil, fmt.Errorf("model %s: vocab_size %d does not match %d weights", path, m.VocabSize, len(m.Weights))
	}
	return &m, nil
}

func checkIDs(ids []int, vocabSize int) error {
	for _, id := range ids {
		if id < 0 || id >= vocabSize {
			return fmt.Errorf("%w: token id %d outside [0,%d)", ErrIncompatible, id, vocabSize)
		}
	}
	return nil
}

func countWords(ids []int) int {
	n := 0
	for _, id := range ids {
		if id >= UnkID && id != SepID {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
