package ingestion

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// ErrUnsafePath is returned when an archive entry would be written outside the destination.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// ErrUnsupportedArchive is returned for archive formats the worker cannot extract.
var ErrUnsupportedArchive = errors.New("unsupported archive format")

// ExtractArchive extracts LocalDataFile into UnzipDir. The format follows the file extension:
// .zip, .tar, .tar.gz / .tgz or .tar.zst / .tzst.
func (w *Worker) ExtractArchive() error {
	src, dest := w.cfg.LocalDataFile, w.cfg.UnzipDir
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create extraction directory: %w", err)
	}

	var n int
	var err error
	name := strings.ToLower(src)
	switch {
	case strings.HasSuffix(name, ".zip"):
		n, err = extractZip(src, dest)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		n, err = extractCompressedTar(src, dest, func(r io.Reader) (io.Reader, func(), error) {
			zr, err := gzip.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return zr, func() { _ = zr.Close() }, nil
		})
	case strings.HasSuffix(name, ".tar.zst"), strings.HasSuffix(name, ".tzst"):
		n, err = extractCompressedTar(src, dest, func(r io.Reader) (io.Reader, func(), error) {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return zr, zr.Close, nil
		})
	case strings.HasSuffix(name, ".tar"):
		n, err = extractCompressedTar(src, dest, func(r io.Reader) (io.Reader, func(), error) {
			return r, func() {}, nil
		})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedArchive, filepath.Base(src))
	}
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", src, err)
	}

	w.logger.Info(fmt.Sprintf("Extracted %d files into %s", n, dest))
	return nil
}

func extractZip(src, dest string) (int, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n := 0
	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return n, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return n, err
			}
			continue
		}
		if f.Mode()&os.ModeSymlink != 0 {
			return n, fmt.Errorf("%w: symlink %s", ErrUnsafePath, f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			return n, err
		}
		err = writeFile(target, rc)
		rc.Close()
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func extractCompressedTar(src, dest string, decompress func(io.Reader) (io.Reader, func(), error)) (int, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r, closeFn, err := decompress(f)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	tr := tar.NewReader(r)
	n := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return n, err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return n, err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr); err != nil {
				return n, err
			}
			n++
		case tar.TypeSymlink, tar.TypeLink:
			return n, fmt.Errorf("%w: link %s", ErrUnsafePath, hdr.Name)
		}
	}
}

func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	target := filepath.Join(dest, name)
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

func writeFile(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
