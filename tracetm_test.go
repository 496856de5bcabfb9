package tracetm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	tracetm "github.com/irobinett3/traceTM-iansntm"
	"github.com/irobinett3/traceTM-iansntm/internal/testutils"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/memory"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/irobinett3/traceTM-iansntm/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_TraceFixtures(t *testing.T) {
	eng, err := tracetm.New("testdata/machines")
	require.NoError(t, err)

	tests := []struct {
		machine     string
		input       string
		accepted    bool
		depth       int
		transitions int
	}{
		{"a_plus", "aaa_", true, 4, 6},
		{"a_plus", "b_", false, 1, 1},
		{"a_plus_dtm", "a_", true, 2, 2},
		{"loop", "a", false, 2, 2},
		{"left_edge", "a", false, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.machine+"/"+tt.input, func(t *testing.T) {
			res, err := eng.Trace(context.Background(), tt.machine, tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.accepted, res.Accepted)
			assert.Equal(t, tt.depth, res.FinalDepth())
			assert.Equal(t, tt.transitions, res.Transitions)
			assert.NotEmpty(t, res.ID)
			assert.False(t, res.CreatedAt.IsZero())
		})
	}
}

func TestEngine_UnknownMachine(t *testing.T) {
	eng, err := tracetm.New("testdata/machines")
	require.NoError(t, err)

	_, err = eng.Trace(context.Background(), "missing", "a")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestEngine_RequiresPathOrLoader(t *testing.T) {
	_, err := tracetm.New("")
	assert.Error(t, err)
}

func TestEngine_PersistsResults(t *testing.T) {
	loader, err := dsl.Catalog(
		dsl.New("ends_in_b").
			On("q0", "a").Right("q0", "a").
			On("q0", "b").Right("q1", "b").
			On("q1", "_").Stay("qacc", "_").
			On("q1", "a").Right("q0", "a"),
	)
	require.NoError(t, err)

	store := memory.NewStore()
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	eng, err := tracetm.New("",
		tracetm.WithLoader(loader),
		tracetm.WithStore(store),
		tracetm.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := eng.Trace(ctx, "ends_in_b", "aab")
	require.NoError(t, err)
	assert.True(t, first.Accepted)

	second, err := eng.Trace(ctx, "ends_in_b", "aba")
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.NotEqual(t, first.ID, second.ID)

	summaries, err := eng.Results(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, second.ID, summaries[0].ID, "newest first")

	loaded, err := eng.Result(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Trace, loaded.Trace)

	require.NoError(t, eng.DeleteResult(ctx, first.ID))
	_, err = eng.Result(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
}

func TestEngine_WithoutStore(t *testing.T) {
	eng, err := tracetm.New("testdata/machines")
	require.NoError(t, err)

	_, err = eng.Results(context.Background())
	assert.True(t, errors.Is(err, tracetm.ErrNoStore))
	assert.ErrorIs(t, eng.DeleteResult(context.Background(), "x"), tracetm.ErrNoStore)
	assert.Nil(t, eng.Store())
}

func TestEngine_TraceDepth(t *testing.T) {
	eng, err := tracetm.New("testdata/machines", tracetm.WithMaxDepth(50))
	require.NoError(t, err)
	assert.Equal(t, 50, eng.MaxDepth())

	res, err := eng.TraceDepth(context.Background(), "runaway", "a", 3)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, 3, res.MaxDepth)
	assert.Len(t, res.Trace, 3)

	// the cached explorer keeps the engine default
	res, err = eng.Trace(context.Background(), "runaway", "a")
	require.NoError(t, err)
	assert.Equal(t, 50, res.MaxDepth)
}

func TestEngine_ZeroMaxDepthUsesDefault(t *testing.T) {
	for _, n := range []int{0, -5} {
		eng, err := tracetm.New("testdata/machines", tracetm.WithMaxDepth(n))
		require.NoError(t, err)
		assert.Equal(t, tracetm.DefaultMaxDepth, eng.MaxDepth())

		res, err := eng.Trace(context.Background(), "a_plus", "aaa_")
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		assert.Equal(t, tracetm.DefaultMaxDepth, res.MaxDepth)
	}
}

func TestEngine_Hooks(t *testing.T) {
	var halts []domain.HaltReason
	eng, err := tracetm.New("testdata/machines", tracetm.WithHooks(domain.LifecycleHooks{
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			halts = append(halts, e.Reason)
		},
	}))
	require.NoError(t, err)

	_, err = eng.Trace(context.Background(), "a_plus", "a_")
	require.NoError(t, err)
	assert.Equal(t, []domain.HaltReason{domain.HaltAccepted}, halts)
}

func TestEngine_MachinesAndReload(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"one.csv": "one\nq0,qacc,qrej\na\na,_\nq0\nqacc\nqrej\nq0,a,qacc,a,S\n",
	})

	eng, err := tracetm.New(dir)
	require.NoError(t, err)

	names, err := eng.Machines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, names)

	res, err := eng.Trace(context.Background(), "one", "a")
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	testutils.WriteFiles(t, dir, map[string]string{
		"one.csv": "one\nq0,qacc,qrej\na\na,_\nq0\nqacc\nqrej\nq0,a,qrej,a,S\n",
	})
	res, err = eng.Trace(context.Background(), "one", "a")
	require.NoError(t, err)
	assert.True(t, res.Accepted, "cached until reloaded")

	eng.Reload("one")
	res, err = eng.Trace(context.Background(), "one", "a")
	require.NoError(t, err)
	assert.False(t, res.Accepted)

	m, err := eng.Machine(context.Background(), "one")
	require.NoError(t, err)
	assert.Equal(t, "qrej", m.Transitions[0].Next)
}

func TestEngine_UndeclaredMarkerSymbol(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"mark.csv": "mark\nq0,qacc,qrej\na\na\nq0\nqacc\nqrej\nq0,a,q0,X,R\nq0,_,qacc,_,S\n",
	})

	eng, err := tracetm.New(dir)
	require.NoError(t, err)

	res, err := eng.Trace(context.Background(), "mark", "aa")
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, 3, res.FinalDepth())
	assert.Equal(t, 3, res.Transitions)
	assert.Equal(t, []domain.ConfigView{{Left: "X", State: "q0", Right: "a"}}, res.Trace[1].Configurations)
	assert.Equal(t, []domain.ConfigView{{Left: "XX", State: "qacc", Right: ""}}, res.Trace[3].Configurations)
}

func TestRun(t *testing.T) {
	m := dsl.New("a_plus").
		On("q0", "a").Right("q1", "a").
		On("q1", "a").Right("q1", "a").
		On("q1", "a").Stay("qrej", "a").
		On("q1", "_").Stay("qacc", "_").
		MustBuild()

	trace, accepted, transitions := tracetm.Run(m, "aa_", 100)
	assert.True(t, accepted)
	assert.Equal(t, 4, transitions)
	assert.Len(t, trace, 4)

	trace, accepted, transitions = tracetm.Run(m, "aa_", 0)
	assert.False(t, accepted)
	assert.Zero(t, transitions)
	assert.Empty(t, trace)
}
