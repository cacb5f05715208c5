// Package ingestion fetches the raw dataset archive and extracts it into the stage directory.
package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/config"
	"github.com/aretw0/textsum/pkg/domain"
)

// Worker performs the data ingestion stage.
type Worker struct {
	cfg    config.DataIngestionConfig
	logger *slog.Logger
	client *http.Client
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the worker logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithHTTPClient overrides the client used for http and https sources.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Worker) {
		w.client = client
	}
}

// New creates an ingestion worker for cfg.
func New(cfg config.DataIngestionConfig, opts ...Option) *Worker {
	w := &Worker{cfg: cfg, client: http.DefaultClient}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.Module(w.logger, "data_ingestion")
	return w
}

// Run downloads the archive (unless already present), verifies it is non-empty and extracts it.
// Failures wrap domain.ErrIngestion.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.DownloadFile(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIngestion, err)
	}
	if err := w.ExtractArchive(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIngestion, err)
	}
	return nil
}

// DownloadFile fetches SourceURL to LocalDataFile. An existing local file is reused.
func (w *Worker) DownloadFile(ctx context.Context) error {
	dest := w.cfg.LocalDataFile
	if info, err := os.Stat(dest); err == nil {
		w.logger.Info(fmt.Sprintf("File already exists of size: %d bytes", info.Size()), "path", dest)
		return verifyNonEmpty(dest)
	}

	src, err := w.open(ctx, w.cfg.SourceURL)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	n, err := io.Copy(tmp, src)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", w.cfg.SourceURL, err)
	}
	if n == 0 {
		return fmt.Errorf("downloaded resource %s is empty", w.cfg.SourceURL)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close download: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	w.logger.Info(fmt.Sprintf("%s download! with following info: %d bytes", dest, n), "source", w.cfg.SourceURL)
	return nil
}

func (w *Worker) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if source == "" {
		return nil, fmt.Errorf("source_url is empty")
	}
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid source_url %q: %w", source, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := w.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", source, resp.Status)
		}
		return resp.Body, nil
	case "file":
		return openLocal(u.Path)
	case "":
		return openLocal(source)
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

func openLocal(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	return f, nil
}

func verifyNonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, want an archive file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s is empty", path)
	}
	return nil
}
