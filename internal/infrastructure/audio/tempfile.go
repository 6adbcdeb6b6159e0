package audio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TempAudio is a temporary audio file exclusively owned by one run.
// Close removes the file and is safe to call more than once.
type TempAudio struct {
	path string
	name string

	once     sync.Once
	closeErr error
}

// Path returns the file path on local storage
func (t *TempAudio) Path() string { return t.path }

// Name returns the user-supplied file name the audio came from
func (t *TempAudio) Name() string { return t.name }

// Ext returns the lower-cased extension of the original file name
func (t *TempAudio) Ext() string { return strings.ToLower(filepath.Ext(t.name)) }

// Open opens the file for reading
func (t *TempAudio) Open() (*os.File, error) {
	return os.Open(t.path)
}

// Size returns the file size in bytes
func (t *TempAudio) Size() (int64, error) {
	info, err := os.Stat(t.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Close removes the file from disk
func (t *TempAudio) Close() error {
	t.once.Do(func() {
		if err := os.Remove(t.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.closeErr = err
		}
	})
	return t.closeErr
}

// Stage copies an uploaded stream into a temp file so it outlives the HTTP
// request that carried it
func Stage(dir, name string, r io.Reader) (*TempAudio, error) {
	ext := strings.ToLower(filepath.Ext(name))
	f, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create upload temp file: %w", err)
	}
	staged := &TempAudio{path: f.Name(), name: name}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		staged.Close()
		return nil, fmt.Errorf("write upload temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		staged.Close()
		return nil, fmt.Errorf("close upload temp file: %w", err)
	}
	return staged, nil
}

// newTempWAV reserves an empty output path for a normalized file
func newTempWAV(dir, name string) (*TempAudio, error) {
	f, err := os.CreateTemp(dir, "normalized-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create normalized temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close normalized temp file: %w", err)
	}
	return &TempAudio{path: f.Name(), name: name}, nil
}
