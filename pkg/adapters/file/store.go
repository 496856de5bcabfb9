package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/klauspost/compress/zstd"
)

// Ext is the file extension of stored results.
const Ext = ".json.zst"

// Store implements ports.ResultStore using the local filesystem.
// Each result is a zstd-compressed JSON file named after its ID.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".tmtrace/results".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".tmtrace", "results")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(id string) (string, error) {
	if id == "" {
		return "", errors.New("result id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid result id %q", id)
	}
	return filepath.Join(s.BasePath, id+Ext), nil
}

// Save writes the result atomically: a temp file in the same directory is
// fsynced and then renamed over the destination.
func (s *Store) Save(_ context.Context, result *domain.Result) error {
	destPath, err := s.path(result.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure results directory: %w", err)
	}

	data, err := encode(result)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+result.ID+"-*"+Ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing result file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads and decompresses a result file.
func (s *Store) Load(_ context.Context, id string) (*domain.Result, error) {
	filePath, err := s.path(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()

	return decode(f)
}

// Delete removes the result file.
func (s *Store) Delete(_ context.Context, id string) error {
	filePath, err := s.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete result file: %w", err)
	}
	return nil
}

// List decodes every stored result and returns their summaries, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Summary, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Summary{}, nil
		}
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	out := make([]domain.Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Ext) || strings.HasPrefix(name, "tmp-") {
			continue
		}
		r, err := s.Load(ctx, strings.TrimSuffix(name, Ext))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		out = append(out, r.Summarize())
	}

	domain.SortSummaries(out)
	return out, nil
}

func encode(result *domain.Result) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(result); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush zstd stream: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(r io.Reader) (*domain.Result, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var result domain.Result
	if err := json.NewDecoder(zr).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}
