// Package fs loads machine definitions from a directory tree.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/irobinett3/traceTM-iansntm/internal/validator"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/csvdef"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPattern matches every supported definition format.
const DefaultPattern = "**/*.{csv,yaml,yml,json}"

// Loader implements ports.MachineLoader over a directory.
// A machine's name is its path relative to the root, slash-separated, without extension.
type Loader struct {
	root    string
	pattern string
	strict  bool
}

type Option func(*Loader)

// WithPattern restricts the files considered to a doublestar pattern.
func WithPattern(pattern string) Option {
	return func(l *Loader) {
		l.pattern = pattern
	}
}

// WithStrict toggles validation of every loaded machine. Enabled by default.
func WithStrict(strict bool) Option {
	return func(l *Loader) {
		l.strict = strict
	}
}

// New creates a loader rooted at dir.
func New(dir string, opts ...Option) *Loader {
	l := &Loader{root: dir, pattern: DefaultPattern, strict: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string {
	return l.root
}

// Load reads and decodes the named machine.
func (l *Loader) Load(ctx context.Context, name string) (*domain.Machine, error) {
	files, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	path, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}

	m, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = name
	}
	if l.strict {
		if err := validator.Validate(m); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return m, nil
}

// List returns the names of all definition files under the root.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	files, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// index maps machine names to file paths. Two files that share a name
// (a.csv and a.yaml) are a collision.
func (l *Loader) index(ctx context.Context) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(l.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		match, err := doublestar.Match(l.pattern, rel)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", l.pattern, err)
		}
		if !match {
			return nil
		}

		name := strings.TrimSuffix(rel, filepath.Ext(rel))
		if existing, ok := files[name]; ok {
			return fmt.Errorf("collision detected: machine '%s' is defined in both '%s' and '%s'", name, existing, path)
		}
		files[name] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.root, err)
	}
	return files, nil
}

// LoadFile decodes a single definition file, choosing the codec by extension.
// It does not validate the result.
func LoadFile(path string) (*domain.Machine, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvdef.ParseFile(path)
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("unsupported machine definition format: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine definition: %w", err)
	}

	var raw map[string]any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, domain.ErrMalformedMachine, err)
	}

	m, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
