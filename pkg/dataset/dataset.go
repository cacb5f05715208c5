// Package dataset defines the on-disk record formats exchanged between stages and
// reads/writes them as JSON Lines, one file per split.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Split names, in the order they are processed.
const (
	SplitTrain      = "train"
	SplitValidation = "validation"
	SplitTest       = "test"
)

// Splits lists every split a dataset directory must contain.
var Splits = []string{SplitTrain, SplitValidation, SplitTest}

// Record is one raw dialogue/summary pair produced by ingestion.
type Record struct {
	ID       string `json:"id"`
	Dialogue string `json:"dialogue"`
	Summary  string `json:"summary"`
}

// Encoded is one model-ready record produced by transformation.
type Encoded struct {
	ID            string `json:"id"`
	InputIDs      []int  `json:"input_ids"`
	AttentionMask []int  `json:"attention_mask"`
	Labels        []int  `json:"labels"`
}

// SplitPath returns the JSONL file of split inside dir.
func SplitPath(dir, split string) string {
	return filepath.Join(dir, split+".jsonl")
}

// ReadJSONL decodes every non-blank line of path into a T.
// Errors carry the 1-based line number.
func ReadJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []T
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var item T
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, item)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// MarshalJSONL encodes items one per line. The output is byte-stable for equal input.
func MarshalJSONL[T any](items []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, item := range items {
		if err := enc.Encode(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
