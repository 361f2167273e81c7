package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/personnel/internal/pkg/apperrors"
	"github.com/yigit/personnel/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The upload directory
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// The directory is created when missing.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// BasePath returns the upload directory
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// GetFullPath returns the filesystem path for key, rejecting keys that would
// escape the upload directory.
func (ls *LocalStorage) GetFullPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", apperrors.ErrInvalidKey
	}
	return filepath.Join(ls.basePath, key), nil
}

// Save writes r to the upload directory under key
func (ls *LocalStorage) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	dstPath, err := ls.GetFullPath(key)
	if err != nil {
		return err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err = io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return fmt.Errorf("failed to save file content: %w", err)
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to close destination file: %w", err)
	}

	logger.Debug().Str("path", dstPath).Msg("File saved")
	return nil
}

// Open opens the file stored under key
func (ls *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := ls.GetFullPath(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, apperrors.ErrFileNotFound
	}

	return f, nil
}

// Delete removes a file from the upload directory.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := ls.GetFullPath(key)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("path", path).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Debug().Str("path", path).Msg("File deleted")
	return nil
}

// Exists reports whether a regular file is stored under key
func (ls *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	path, err := ls.GetFullPath(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
