package loam

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/loam"
	"github.com/irobinett3/traceTM-iansntm/internal/testutils"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/irobinett3/traceTM-iansntm/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aPlusDoc = "---\n" +
	"name: a_plus\n" +
	"states: [q0, q1, qacc, qrej]\n" +
	"input_alphabet: [a]\n" +
	"tape_alphabet: [a, _]\n" +
	"start_state: q0\n" +
	"accept_state: qacc\n" +
	"reject_state: qrej\n" +
	"---\n" +
	"One or more a's, guessing where the input ends.\n\n" +
	"```csv\n" +
	"q0,a,q1,a,R\n" +
	"q1,a,q1,a,R\n" +
	"q1,a,qrej,a,S\n" +
	"q1,_,qacc,_,S\n" +
	"```\n"

const zerosDoc = `{
  "states": ["q0", "qa", "qr"],
  "input_alphabet": ["0"],
  "tape_alphabet": ["0", "_"],
  "start_state": "q0",
  "accept_state": "qa",
  "reject_state": "qr",
  "transitions": ["q0,0,q0,0,R", "q0,_,qa,_,S"]
}`

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, files)
	return New(loam.NewTypedRepository[MachineMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"a_plus.md":  aPlusDoc,
		"zeros.json": zerosDoc,
	})

	want := map[string]*domain.Machine{
		"a_plus": {Name: "a_plus", StartState: "q0", AcceptState: "qacc", RejectState: "qrej", Transitions: make([]domain.Transition, 4)},
		"zeros":  {Name: "zeros", StartState: "q0", AcceptState: "qa", RejectState: "qr", Transitions: make([]domain.Transition, 2)},
	}
	tests.MachineLoaderContractTest(t, loader, want)
}

func TestLoader_TransitionsFromBody(t *testing.T) {
	loader := newLoader(t, map[string]string{"a_plus.md": aPlusDoc})

	m, err := loader.Load(context.Background(), "a_plus")
	require.NoError(t, err)
	require.Len(t, m.Transitions, 4)
	assert.Equal(t, domain.Transition{State: "q1", Read: "a", Next: "qrej", Write: "a", Move: domain.MoveStay}, m.Transitions[2])
}

func TestLoader_DetectsCollisions(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"zeros.json": zerosDoc,
		"other.md":   "---\nname: zeros\n---\n",
	})

	_, err := loader.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_InvalidMachine(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"broken.md": "---\nstates: [q0]\nstart_state: q0\naccept_state: q0\nreject_state: q0\n---\n",
	})

	_, err := loader.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedMachine))
}

func TestCSVBlock(t *testing.T) {
	assert.Equal(t, "a,b", csvBlock("intro\n```csv\na,b\n```\n```csv\nc,d\n```"))
	assert.Empty(t, csvBlock("```go\nx\n```"))
	assert.Empty(t, csvBlock("```csv\nunterminated"))
}
