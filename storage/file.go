package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// File stores the token in a single owner-only file.
type File struct {
	mu   sync.Mutex
	path string
}

var _ TokenStorage = (*File)(nil)

// NewFile creates a file-backed slot at path. An empty path selects
// DefaultTokenPath(appName).
func NewFile(path, appName string) *File {
	if path == "" {
		path = DefaultTokenPath(appName)
	}
	return &File{path: path}
}

// DefaultTokenPath returns $XDG_CONFIG_HOME/<app>/token, falling back to
// ~/.config/<app>/token.
func DefaultTokenPath(appName string) string {
	directoryName := strings.ToLower(strings.Join(strings.Fields(appName), "-"))
	if directoryName == "" {
		directoryName = "go-auth-client"
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), directoryName, TokenKey)
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, directoryName, TokenKey)
}

// Path returns the file the token is stored in.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.Wrapf(apperrors.ErrNotFound, "token file %s", f.path)
		}
		return "", apperrors.Wrapf(storageErr(err), "reading token file %s", f.path)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", apperrors.Wrapf(apperrors.ErrNotFound, "token file %s is empty", f.path)
	}
	return token, nil
}

// Set writes the token with mode 0600, creating the parent directory with
// mode 0700 if needed. The file is replaced atomically.
func (f *File) Set(_ context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	directory := filepath.Dir(f.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return apperrors.Wrapf(storageErr(err), "creating token directory %s", directory)
	}

	temp, err := os.CreateTemp(directory, ".token-*")
	if err != nil {
		return apperrors.Wrapf(storageErr(err), "creating temp token file")
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	if err := temp.Chmod(0600); err != nil {
		temp.Close()
		return apperrors.Wrapf(storageErr(err), "chmod temp token file")
	}
	if _, err := temp.WriteString(token + "\n"); err != nil {
		temp.Close()
		return apperrors.Wrapf(storageErr(err), "writing token file")
	}
	if err := temp.Close(); err != nil {
		return apperrors.Wrapf(storageErr(err), "closing token file")
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		return apperrors.Wrapf(storageErr(err), "replacing token file %s", f.path)
	}
	return nil
}

func (f *File) Remove(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrapf(storageErr(err), "removing token file %s", f.path)
	}
	return nil
}
