package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/irobinett3/traceTM-iansntm/internal/validator"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/csvdef"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/fs"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// Loader adapts a Loam repository to the MachineLoader interface.
//
// Each document describes one machine. Header fields live in the frontmatter;
// transitions come from the frontmatter or, when absent there, from the first
// fenced csv block of the document body.
type Loader struct {
	Repo *loam.TypedRepository[MachineMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[MachineMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Load resolves name to a document and decodes it.
func (l *Loader) Load(ctx context.Context, name string) (*domain.Machine, error) {
	ids, err := l.documents(ctx)
	if err != nil {
		return nil, err
	}
	docID, ok := ids[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}

	doc, err := l.Repo.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", docID, err)
	}

	m, err := fs.Decode(doc.Data.raw())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docID, err)
	}
	if len(m.Transitions) == 0 {
		if block := csvBlock(doc.Content); block != "" {
			if m.Transitions, err = csvdef.ParseTransitions(strings.NewReader(block)); err != nil {
				return nil, fmt.Errorf("%s: %w", docID, err)
			}
		}
	}

	if m.Name == "" {
		m.Name = name
	}
	if err := validator.Validate(m); err != nil {
		return nil, fmt.Errorf("%s: %w", docID, err)
	}
	return m, nil
}

// List lists all machines in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	ids, err := l.documents(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// documents maps machine names to Loam document IDs.
func (l *Loader) documents(ctx context.Context) (map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		// Use the name from metadata if available, otherwise the filename
		name := doc.Data.Name
		if name == "" {
			name = trimExtension(doc.ID)
		}

		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: machine '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID
	}
	return seen, nil
}

// csvBlock returns the body of the first ```csv fenced block, or "".
func csvBlock(content string) string {
	lines := strings.Split(content, "\n")
	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start < 0 {
			if strings.HasPrefix(trimmed, "```") && strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")), "csv") {
				start = i + 1
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			return strings.Join(lines[start:i], "\n")
		}
	}
	return ""
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
