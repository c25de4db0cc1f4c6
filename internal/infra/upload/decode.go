package upload

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

var (
	ErrUnsupportedFormat = errors.New("invalid file format. Must be VCF, CSV, TSV or TXT (optionally .gz, .zst or .zip)")
	ErrTooLarge          = errors.New("decompressed genome exceeds size limit")
	ErrEmptyArchive      = errors.New("archive contains no genome text file")
)

var textExts = map[string]bool{".txt": true, ".csv": true, ".tsv": true, ".vcf": true}

// File is what multipart.File offers.
type File interface {
	io.Reader
	io.ReaderAt
}

// Kind is the container format inferred from a filename.
type Kind int

const (
	KindPlain Kind = iota
	KindGzip
	KindZstd
	KindZip
)

// Classify checks name against the allowed extensions.
func Classify(name string) (Kind, error) {
	lower := strings.ToLower(filepath.Base(name))
	switch ext := filepath.Ext(lower); ext {
	case ".zip":
		return KindZip, nil
	case ".gz", ".zst":
		if !textExts[filepath.Ext(strings.TrimSuffix(lower, ext))] {
			return 0, ErrUnsupportedFormat
		}
		if ext == ".gz" {
			return KindGzip, nil
		}
		return KindZstd, nil
	default:
		if textExts[ext] {
			return KindPlain, nil
		}
		return 0, ErrUnsupportedFormat
	}
}

// Open returns the genome text inside f. Reads past limit bytes fail with
// ErrTooLarge; limit <= 0 disables the check.
func Open(name string, f File, size int64, limit int64) (io.ReadCloser, error) {
	kind, err := Classify(name)
	if err != nil {
		return nil, err
	}

	var rc io.ReadCloser
	switch kind {
	case KindGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip upload: %w", err)
		}
		rc = zr
	case KindZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd upload: %w", err)
		}
		rc = dec.IOReadCloser()
	case KindZip:
		rc, err = openZipMember(f, size)
		if err != nil {
			return nil, err
		}
	default:
		rc = io.NopCloser(f)
	}

	if limit <= 0 {
		return rc, nil
	}
	return &limitedReadCloser{rc: rc, remaining: limit}, nil
}

// openZipMember opens the first text file in the archive, the way 23andMe
// packs its raw data export.
func openZipMember(f File, size int64) (io.ReadCloser, error) {
	zr, err := zip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("opening zip upload: %w", err)
	}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || strings.HasPrefix(path.Base(zf.Name), ".") {
			continue
		}
		if !textExts[strings.ToLower(path.Ext(zf.Name))] {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in zip: %w", zf.Name, err)
		}
		return rc, nil
	}
	return nil, ErrEmptyArchive
}

type limitedReadCloser struct {
	rc        io.ReadCloser
	remaining int64
}

func (l *limitedReadCloser) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// one extra byte tells a file of exactly limit bytes from a bigger one
		var probe [1]byte
		n, err := l.rc.Read(probe[:])
		if n > 0 {
			return 0, ErrTooLarge
		}
		if err == nil {
			return 0, nil
		}
		return 0, io.EOF
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.rc.Read(p)
	l.remaining -= int64(n)
	return n, err
}

func (l *limitedReadCloser) Close() error { return l.rc.Close() }
