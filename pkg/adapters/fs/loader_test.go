package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/fs"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	contract "github.com/irobinett3/traceTM-iansntm/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtures = filepath.Join("..", "..", "..", "testdata", "machines")

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestLoader_Contract(t *testing.T) {
	entries, err := os.ReadDir(fixtures)
	require.NoError(t, err)

	want := make(map[string]*domain.Machine)
	for _, e := range entries {
		m, err := fs.LoadFile(filepath.Join(fixtures, e.Name()))
		require.NoError(t, err)
		want[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = m
	}

	contract.MachineLoaderContractTest(t, fs.New(fixtures), want)
}

func TestLoader_YAMLCompactForms(t *testing.T) {
	m, err := fs.New(fixtures).Load(context.Background(), "even_as")
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, m.InputAlphabet, "scalar strings become one-element lists")
	require.Len(t, m.Transitions, 3)
	for _, tr := range m.Transitions[:2] {
		assert.Equal(t, domain.MoveRight, tr.Move)
	}
	assert.Equal(t, domain.Transition{State: "even", Read: "_", Next: "qacc", Write: "_", Move: domain.MoveStay}, m.Transitions[2])
}

func TestLoader_JSONAndNestedNames(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"binary/zeros.json": `{
  "states": ["q0", "qa", "qr"],
  "input_alphabet": [0],
  "tape_alphabet": [0, "_"],
  "start_state": "q0",
  "accept_state": "qa",
  "reject_state": "qr",
  "transitions": [["q0", 0, "q0", 0, "R"], "q0,_,qa,_,S"]
}`,
		"notes.txt": "ignored",
	})
	loader := fs.New(dir)

	names, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"binary/zeros"}, names)

	m, err := loader.Load(context.Background(), "binary/zeros")
	require.NoError(t, err)
	assert.Equal(t, "binary/zeros", m.Name, "name defaults to the relative path")
	assert.Equal(t, []string{"0", "_"}, m.TapeAlphabet)
	assert.Equal(t, "0", m.Transitions[0].Read)
}

func TestLoader_Collision(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"dup.csv":  "dup\nq0,qa,qr\na\na\nq0\nqa\nqr\n",
		"dup.yaml": "name: dup\n",
	})

	_, err := fs.New(dir).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_StrictValidation(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"broken.yaml": "name: broken\nstates: [q0, qa]\nstart_state: q0\naccept_state: qa\nreject_state: ghost\n",
	})

	_, err := fs.New(dir).Load(context.Background(), "broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedMachine))

	m, err := fs.New(dir, fs.WithStrict(false)).Load(context.Background(), "broken")
	require.NoError(t, err)
	assert.Equal(t, "ghost", m.RejectState)
}

func TestLoader_UndeclaredSymbolsLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"mark.csv": "mark\nq0,qacc,qrej\na\na\nq0\nqacc\nqrej\nq0,a,q0,X,R\nq0,b,q7,b,L\n",
	})

	m, err := fs.New(dir).Load(context.Background(), "mark")
	require.NoError(t, err)
	assert.Equal(t, "X", m.Transitions[0].Write)
	assert.Equal(t, "q7", m.Transitions[1].Next)
}

func TestLoader_Pattern(t *testing.T) {
	loader := fs.New(fixtures, fs.WithPattern("**/*.yaml"))

	names, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"even_as"}, names)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"Unknown Key", map[string]any{"name": "m", "acceptance": "qa"}},
		{"Short Transition", map[string]any{"transitions": []any{"q0,a,q1"}}},
		{"Bad Move", map[string]any{"transitions": []any{map[string]any{"state": "q0", "read": "a", "next": "q1", "write": "a", "move": "X"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fs.Decode(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedMachine), "got %v", err)
		})
	}
}
