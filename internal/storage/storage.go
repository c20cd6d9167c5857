// Package storage provides file-based JSON storage for boats, boat types and reviews.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

var (
	ErrNotFound = errors.New("not found")
)

// Storage provides file-based JSON storage on an afero filesystem.
type Storage struct {
	fs       afero.Fs
	basePath string
	locks    *lockTable
}

// New creates a new Storage rooted at basePath on fs. A nil fs means the OS filesystem.
func New(fs afero.Fs, basePath string) *Storage {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Storage{
		fs:       fs,
		basePath: basePath,
		locks:    newLockTable(),
	}
}

// NewMemory creates a Storage backed by an in-memory filesystem.
func NewMemory() *Storage {
	return New(afero.NewMemMapFs(), "/")
}

// Fs returns the underlying filesystem.
func (s *Storage) Fs() afero.Fs {
	return s.fs
}

// pathToFile converts a path slice to a file path.
func (s *Storage) pathToFile(path []string) string {
	parts := append([]string{s.basePath}, path...)
	return filepath.Join(parts...) + ".json"
}

// pathToDir converts a path slice to a directory path.
func (s *Storage) pathToDir(path []string) string {
	parts := append([]string{s.basePath}, path...)
	return filepath.Join(parts...)
}

// Get retrieves a value from storage.
func (s *Storage) Get(ctx context.Context, path []string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	filePath := s.pathToFile(path)

	data, err := afero.ReadFile(s.fs, filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal: %w", err)
	}

	return nil
}

// Put stores a value in storage. Writes to the same key are serialized.
func (s *Storage) Put(ctx context.Context, path []string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	filePath := s.pathToFile(path)

	// Ensure directory exists
	if err := s.fs.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	unlock := s.locks.lock(filePath)
	defer unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	// Write to temp file first, then rename
	tmpPath := filePath + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := s.fs.Rename(tmpPath, filePath); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// Delete removes a value from storage.
func (s *Storage) Delete(ctx context.Context, path []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	filePath := s.pathToFile(path)

	unlock := s.locks.lock(filePath)
	defer unlock()

	if err := s.fs.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// List returns all items at a path, sorted by name.
func (s *Storage) List(ctx context.Context, path []string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.pathToDir(path))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	items := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			items = append(items, name)
		} else if strings.HasSuffix(name, ".json") {
			items = append(items, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(items)

	return items, nil
}

// Scan iterates over all items at a path in name order.
func (s *Storage) Scan(ctx context.Context, path []string, fn func(key string, data json.RawMessage) error) error {
	dirPath := s.pathToDir(path)

	entries, err := afero.ReadDir(s.fs, dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Nothing to scan
		}
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := afero.ReadFile(s.fs, filepath.Join(dirPath, name))
		if err != nil {
			continue // Skip files that can't be read
		}

		key := strings.TrimSuffix(name, ".json")
		if err := fn(key, json.RawMessage(data)); err != nil {
			return err
		}
	}

	return nil
}

// Exists checks if a path exists.
func (s *Storage) Exists(ctx context.Context, path []string) bool {
	_, err := s.fs.Stat(s.pathToFile(path))
	return err == nil
}
