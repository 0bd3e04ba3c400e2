// Package avatars stores processed avatar images and returns the public URL
// for each stored file.
package avatars

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// URLPrefix is the public path under which stored avatars are served.
const URLPrefix = "avatars/"

var ErrInvalidName = errors.New("invalid avatar name")

// Disk keeps avatars in a local directory served at /avatars/.
type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	const op = "storage.avatars.NewDisk"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Disk{dir: dir}, nil
}

func (d *Disk) Dir() string {
	return d.dir
}

// Save writes the avatar under name, replacing any file with the same name.
func (d *Disk) Save(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	const op = "storage.avatars.Disk.Save"

	if err := checkName(name); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(d.dir, name)); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return URLPrefix + name, nil
}

// Remove deletes a previously saved avatar. URLs this store did not produce
// are ignored.
func (d *Disk) Remove(_ context.Context, url string) error {
	const op = "storage.avatars.Disk.Remove"

	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || checkName(name) != nil {
		return nil
	}

	if err := os.Remove(filepath.Join(d.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	return nil
}
