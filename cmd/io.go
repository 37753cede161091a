package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eykd/pagemark-go/internal/page"
)

// ProjectIO handles file I/O for every pgm command.
type ProjectIO interface {
	// ReadFile reads the file at path.
	ReadFile(path string) ([]byte, error)
	// StatFile reports whether a file exists at path.
	StatFile(path string) (bool, error)
	// WriteFileAtomic replaces the file at path with content.
	WriteFileAtomic(path string, content []byte) error
	// ListPageFiles returns the *.page filenames in dir, sorted.
	ListPageFiles(dir string) ([]string, error)
}

// fileProjectIO implements ProjectIO using OS file I/O.
// *Impl methods wrap OS calls and are excluded from coverage requirements.
type fileProjectIO struct{}

func newDefaultProjectIO() *fileProjectIO {
	return &fileProjectIO{}
}

// ReadFile reads the file at path.
func (f *fileProjectIO) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// StatFile returns true if the file at path exists, false if it does not.
// Returns an error only for unexpected OS errors.
func (f *fileProjectIO) StatFile(path string) (bool, error) {
	return f.StatFileImpl(path)
}

// StatFileImpl wraps os.Stat to check file existence.
func (f *fileProjectIO) StatFileImpl(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes content to path atomically via a temp file with 0600 permissions.
func (f *fileProjectIO) WriteFileAtomic(path string, content []byte) error {
	return f.WriteFileAtomicImpl(path, content)
}

// WriteFileAtomicImpl performs the atomic write via OS temp file rename.
func (f *fileProjectIO) WriteFileAtomicImpl(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pgm-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ListPageFiles returns the *.page filenames in dir.
func (f *fileProjectIO) ListPageFiles(dir string) ([]string, error) {
	return f.ListPageFilesImpl(dir)
}

// ListPageFilesImpl reads the directory and filters for page files.
func (f *fileProjectIO) ListPageFilesImpl(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), page.Ext) {
			result = append(result, e.Name())
		}
	}
	sort.Strings(result)
	return result, nil
}
