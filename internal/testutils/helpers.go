package testutils

import (
	"archive/tar"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/textsum/pkg/dataset"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// DatasetName is the directory the fixture archives unpack to.
const DatasetName = "samsum_dataset"

// SampleRecords returns a tiny dialogue/summary corpus.
func SampleRecords() []dataset.Record {
	return []dataset.Record{
		{ID: "13818513", Dialogue: "Amanda: I baked cookies. Do you want some?\nJerry: Sure!\nAmanda: I'll bring you tomorrow :-)", Summary: "Amanda baked cookies and will bring Jerry some tomorrow."},
		{ID: "13728867", Dialogue: "Olivia: Who are you voting for in this election?\nOliver: Liberals as always.\nOlivia: Me too!!\nOliver: Great", Summary: "Olivia and Oliver are voting for liberals in this election."},
		{ID: "13681000", Dialogue: "Tim: Hi, what's up?\nKim: Bad mood tbh, I was going to do lots of stuff but ended up procrastinating\nTim: What did you plan on doing?\nKim: Oh you know, uni stuff and unfucking my room", Summary: "Kim may try the pomodoro technique recommended by Tim to get more stuff done."},
		{ID: "13730747", Dialogue: "Edward: Rachel, I think I'm in ove with Bella..\nrachel: Dont say anything else..\nEdward: What do you mean??\nrachel: Open your fu**ing door.. I'm outside", Summary: "Edward thinks he is in love with Bella. Rachel wants Edward to open his door. Rachel is outside."},
	}
}

// DatasetFiles renders records as the content of every split file.
func DatasetFiles(t *testing.T, records []dataset.Record) map[string][]byte {
	t.Helper()
	data, err := dataset.MarshalJSONL(records)
	require.NoError(t, err)

	files := make(map[string][]byte)
	for _, split := range dataset.Splits {
		files[split+".jsonl"] = data
	}
	return files
}

// WriteDataset writes records to every split file in dir.
func WriteDataset(t *testing.T, dir string, records []dataset.Record) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, data := range DatasetFiles(t, records) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
}

// ZipDataset writes a zip archive at path holding DatasetName/<split>.jsonl.
func ZipDataset(t *testing.T, path string, records []dataset.Record) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, split := range dataset.Splits {
		w, err := zw.Create(DatasetName + "/" + split + ".jsonl")
		require.NoError(t, err)
		_, err = w.Write(DatasetFiles(t, records)[split+".jsonl"])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// TarGzDataset writes a gzip compressed tar archive at path with the given entries.
func TarGzDataset(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, data := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(data)), Typeflag: tar.TypeReg}))
		_, err := tw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// Workspace is a temporary project root with config/config.yaml and params.yaml.
type Workspace struct {
	Root       string
	ConfigPath string
	ParamsPath string
}

// Path joins elem onto the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.Root}, elem...)...)
}

// NewWorkspace creates a workspace whose ingestion stage reads from sourceURL.
// All configured paths are absolute and live under the workspace root. extra is appended
// verbatim to the configuration document.
func NewWorkspace(t *testing.T, sourceURL string, extra string) *Workspace {
	t.Helper()
	root, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	ws := &Workspace{
		Root:       root,
		ConfigPath: filepath.Join(root, "config", "config.yaml"),
		ParamsPath: filepath.Join(root, "params.yaml"),
	}
	a := func(elem ...string) string { return ws.Path(append([]string{"artifacts"}, elem...)...) }

	cfg := fmt.Sprintf(`artifacts_root: %[1]q

data_ingestion:
  root_dir: %[2]q
  source_url: %[3]q
  local_data_file: %[4]q
  unzip_dir: %[2]q

data_transformation:
  root_dir: %[5]q
  data_path: %[6]q
  tokenizer_name: words

model_trainer:
  root_dir: %[7]q
  data_path: %[8]q
  model_ckpt: extractive-samsum

model_evaluation:
  root_dir: %[9]q
  data_path: %[8]q
  model_path: %[10]q
  tokenizer_path: %[11]q
  metric_file_name: %[12]q
  batch_size: 2

run_store:
  backend: file
  dir: %[13]q

metrics:
  textfile: %[14]q
%[15]s`,
		a(),
		a("data_ingestion"), sourceURL, a("data_ingestion", "data.zip"),
		a("data_transformation"), a("data_ingestion", DatasetName),
		a("model_trainer"), a("data_transformation", DatasetName),
		a("model_evaluation"), a("model_trainer", "extractive-samsum-model"), a("model_trainer", "tokenizer"),
		a("model_evaluation", "metrics.csv"),
		ws.Path("logs", "runs"), ws.Path("logs", "metrics.prom"),
		extra,
	)

	params := `training_arguments:
  num_train_epochs: 2
  warmup_steps: 2
  per_device_train_batch_size: 1
  weight_decay: 0.01
  logging_steps: 1
  evaluation_strategy: steps
  eval_steps: 500
  save_steps: 1000000
  gradient_accumulation_steps: 2
`
	require.NoError(t, os.MkdirAll(filepath.Dir(ws.ConfigPath), 0755))
	require.NoError(t, os.WriteFile(ws.ConfigPath, []byte(cfg), 0644))
	require.NoError(t, os.WriteFile(ws.ParamsPath, []byte(params), 0644))
	return ws
}
