// Package upload stages a single multipart image upload in a temp directory.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const stampLayout = "02-01-2006_15-04-05"

// multipart framing allowance on top of the file limit
const overhead = 64 << 10

var (
	ErrNoFile   = errors.New("no file uploaded")
	ErrTooLarge = errors.New("file too large")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var forbiddenExts = map[string]bool{
	"exe": true,
	"zip": true,
	"rar": true,
}

type ExtensionError struct {
	Ext string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("%s file type not allowed", e.Ext)
}

type Stager struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewStager(dir string, maxBytes int64) (*Stager, error) {
	const op = "upload.NewStager"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Stager{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

// File is an upload written to the staging directory. Callers must Remove it.
type File struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

func (f *File) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Stage reads the multipart body and writes the first acceptable part named
// field to disk. Parts with a MIME type other than jpeg, png or webp are
// skipped.
func (s *Stager) Stage(w http.ResponseWriter, r *http.Request, field string) (*File, error) {
	const op = "upload.Stage"

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+overhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoFile)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoFile)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, classify(err))
		}

		if part.FormName() != field || part.FileName() == "" {
			part.Close()
			continue
		}

		mediaType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if !allowedTypes[mediaType] {
			part.Close()
			continue
		}

		name := filepath.Base(filepath.Clean("/" + part.FileName()))
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if forbiddenExts[ext] {
			part.Close()
			return nil, fmt.Errorf("%s: %w", op, &ExtensionError{Ext: ext})
		}

		f, err := s.write(part, name, mediaType)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return f, nil
	}
}

func (s *Stager) write(src io.Reader, name, contentType string) (*File, error) {
	dst, err := s.create(name)
	if err != nil {
		return nil, err
	}

	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()

	switch {
	case err != nil:
		err = classify(err)
	case n > s.maxBytes:
		err = ErrTooLarge
	case closeErr != nil:
		err = closeErr
	}
	if err != nil {
		os.Remove(dst.Name())
		return nil, err
	}

	return &File{Path: dst.Name(), Name: name, ContentType: contentType, Size: n}, nil
}

// create opens <stamp>_<name>, falling back to a randomized name when two
// uploads collide within the same second.
func (s *Stager) create(name string) (*os.File, error) {
	stamp := s.now().Format(stampLayout)

	f, err := os.OpenFile(filepath.Join(s.dir, stamp+"_"+name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrExist) {
		return nil, err
	}

	return os.CreateTemp(s.dir, stamp+"_*_"+name)
}

func classify(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrTooLarge
	}
	return err
}
