package ingestion_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/textsum/internal/testutils"
	"github.com/aretw0/textsum/pkg/components/ingestion"
	"github.com/aretw0/textsum/pkg/config"
	"github.com/aretw0/textsum/pkg/dataset"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(t *testing.T, source, archiveName string) config.DataIngestionConfig {
	t.Helper()
	root := t.TempDir()
	return config.DataIngestionConfig{
		RootDir:       root,
		SourceURL:     source,
		LocalDataFile: filepath.Join(root, archiveName),
		UnzipDir:      root,
	}
}

func assertExtracted(t *testing.T, cfg config.DataIngestionConfig) {
	t.Helper()
	for _, split := range dataset.Splits {
		records, err := dataset.ReadJSONL[dataset.Record](dataset.SplitPath(filepath.Join(cfg.UnzipDir, testutils.DatasetName), split))
		require.NoError(t, err)
		assert.Equal(t, testutils.SampleRecords(), records)
	}
}

func TestWorker_HTTPSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "src.zip")
	testutils.ZipDataset(t, archive, testutils.SampleRecords())

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.ServeFile(w, r, archive)
	}))
	defer srv.Close()

	cfg := newConfig(t, srv.URL+"/data.zip", "data.zip")
	w := ingestion.New(cfg, ingestion.WithHTTPClient(srv.Client()))

	require.NoError(t, w.Run(context.Background()))
	assertExtracted(t, cfg)

	// Second run reuses the local file.
	require.NoError(t, ingestion.New(cfg, ingestion.WithHTTPClient(srv.Client())).Run(context.Background()))
	assert.Equal(t, 1, hits)
	assertExtracted(t, cfg)
}

func TestWorker_FileSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "src.zip")
	testutils.ZipDataset(t, archive, testutils.SampleRecords())

	cfg := newConfig(t, "file://"+filepath.ToSlash(archive), "data.zip")
	require.NoError(t, ingestion.New(cfg).Run(context.Background()))
	assertExtracted(t, cfg)
}

func TestWorker_TarGz(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "src.tar.gz")
	files := testutils.DatasetFiles(t, testutils.SampleRecords())
	entries := make(map[string][]byte)
	for name, data := range files {
		entries[testutils.DatasetName+"/"+name] = data
	}
	testutils.TarGzDataset(t, archive, entries)

	cfg := newConfig(t, archive, "data.tar.gz")
	require.NoError(t, ingestion.New(cfg).Run(context.Background()))
	assertExtracted(t, cfg)
}

func TestWorker_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := newConfig(t, srv.URL+"/missing.zip", "data.zip")
	err := ingestion.New(cfg, ingestion.WithHTTPClient(srv.Client())).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIngestion))
	assert.NoFileExists(t, cfg.LocalDataFile)
}

func TestWorker_EmptySource(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.zip")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	cfg := newConfig(t, empty, "data.zip")
	err := ingestion.New(cfg).Run(context.Background())

	assert.True(t, errors.Is(err, domain.ErrIngestion))
	assert.Contains(t, err.Error(), "empty")
}

func TestWorker_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.tar.gz")
	testutils.TarGzDataset(t, archive, map[string][]byte{"../escape.txt": []byte("x")})

	cfg := newConfig(t, archive, "data.tar.gz")
	err := ingestion.New(cfg).Run(context.Background())

	assert.True(t, errors.Is(err, ingestion.ErrUnsafePath))
	assert.True(t, errors.Is(err, domain.ErrIngestion))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(cfg.UnzipDir), "escape.txt"))
}

func TestWorker_UnsupportedArchive(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data.rar")
	require.NoError(t, os.WriteFile(src, []byte("rar!"), 0644))

	cfg := newConfig(t, src, "data.rar")
	err := ingestion.New(cfg).Run(context.Background())
	assert.True(t, errors.Is(err, ingestion.ErrUnsupportedArchive))
}

func TestWorker_UnsupportedScheme(t *testing.T) {
	cfg := newConfig(t, "ftp://example.com/data.zip", "data.zip")
	err := ingestion.New(cfg).Run(context.Background())
	assert.True(t, errors.Is(err, domain.ErrIngestion))
}
