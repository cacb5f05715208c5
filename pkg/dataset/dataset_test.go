package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/textsum/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONL_RoundTripIsStable(t *testing.T) {
	records := []dataset.Record{
		{ID: "1", Dialogue: "Amanda: <hi>\nJerry: hey", Summary: "greetings & more"},
		{ID: "2", Dialogue: "Tom: bye", Summary: "farewell"},
	}

	data, err := dataset.MarshalJSONL(records)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<hi>", "html must not be escaped")

	path := dataset.SplitPath(t.TempDir(), dataset.SplitTrain)
	require.NoError(t, os.WriteFile(path, append(data, '\n'), 0644))

	got, err := dataset.ReadJSONL[dataset.Record](path)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	again, err := dataset.MarshalJSONL(got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestReadJSONL_ReportsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":\"1\"}\n{not json}\n"), 0644))

	_, err := dataset.ReadJSONL[dataset.Record](path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.jsonl:2")
}

func TestReadJSONL_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"1","speaker":"x"}`), 0644))

	_, err := dataset.ReadJSONL[dataset.Record](path)
	assert.Error(t, err)
}
