package evaluator

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Report is a metrics CSV as written by the evaluation stage.
type Report struct {
	Header []string
	Rows   [][]string
}

// ReadReport parses the metrics CSV at path.
func ReadReport(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("metrics %s is empty", path)
	}
	return &Report{Header: records[0], Rows: records[1:]}, nil
}
