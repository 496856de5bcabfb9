package runtime

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/csvdef"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/irobinett3/traceTM-iansntm/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *domain.Machine {
	t.Helper()
	m, err := csvdef.ParseFile(filepath.Join("..", "..", "testdata", "machines", name+".csv"))
	require.NoError(t, err)
	return m
}

func views(snaps domain.Trace) [][]domain.ConfigView {
	out := make([][]domain.ConfigView, len(snaps))
	for i, s := range snaps {
		out[i] = s.Configurations
	}
	return out
}

func TestExplorer_Verdicts(t *testing.T) {
	tests := []struct {
		machine  string
		input    string
		accepted bool
	}{
		{"a_plus", "a_", true},
		{"a_plus", "aaa_", true},
		{"a_plus", "_", false},
		{"a_plus", "b_", false},
		{"a_plus", "ab_", false},
		{"a_plus", "aaab_", false},
		{"a_plus_dtm", "aa", true},
		{"palindrome", "aba_", true},
		{"palindrome", "abba_", true},
		{"palindrome", "a_", true},
		{"palindrome", "_", true},
		{"palindrome", "abc_", false},
		{"equal_01s", "01_", true},
		{"equal_01s", "0011_", true},
		{"equal_01s", "0101_", true},
		{"equal_01s", "10_", true},
		{"equal_01s", "_", true},
		{"equal_01s", "000_", false},
		{"abc_star", "aabbcc_", true},
		{"abc_star", "ab_", true},
		{"abc_star", "c_", true},
		{"abc_star", "_", true},
		{"abc_star", "abcabc_", false},
		{"abc_star", "aab_", false},
		{"abc_star", "aabbbc_", false},
	}

	for _, tt := range tests {
		t.Run(tt.machine+"/"+tt.input, func(t *testing.T) {
			e := NewExplorer(loadFixture(t, tt.machine))
			res, err := e.Run(context.Background(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.accepted, res.Accepted)
			assert.Equal(t, tt.accepted, res.Trace.Contains(e.Machine().AcceptState))
			assert.Equal(t, tt.machine, res.Machine)
			assert.Equal(t, tt.input, res.Input)
		})
	}
}

func TestExplorer_DeterministicTrace(t *testing.T) {
	e := NewExplorer(loadFixture(t, "a_plus_dtm"))

	res, err := e.Run(context.Background(), "a_")
	require.NoError(t, err)

	want := [][]domain.ConfigView{
		{{Left: "", State: "q0", Right: "a"}},
		{{Left: "a", State: "q1", Right: ""}},
		{{Left: "a_", State: "qacc", Right: ""}},
	}
	assert.Equal(t, want, views(res.Trace))
	assert.True(t, res.Accepted)
	assert.Equal(t, 2, res.Transitions)
	assert.Equal(t, 2, res.FinalDepth())
}

func TestExplorer_NondeterministicBranches(t *testing.T) {
	e := NewExplorer(loadFixture(t, "a_plus"))

	res, err := e.Run(context.Background(), "aaa_")
	require.NoError(t, err)

	require.Len(t, res.Trace, 5)
	assert.True(t, res.Accepted)
	assert.Equal(t, 6, res.Transitions)

	// q1 on 'a' forks into a continuing branch and a rejecting one.
	assert.Equal(t, []domain.ConfigView{
		{Left: "aa", State: "q1", Right: "a"},
		{Left: "a", State: "qrej", Right: "aa"},
	}, res.Trace[2].Configurations)
	assert.Equal(t, "qacc", res.Trace[4].Configurations[0].State)
}

func TestExplorer_Cycle(t *testing.T) {
	e := NewExplorer(loadFixture(t, "loop"))

	res, err := e.Run(context.Background(), "a_")
	require.NoError(t, err)

	// The revisited configuration is recorded once more and then dropped.
	want := [][]domain.ConfigView{
		{{State: "q0", Right: "a"}},
		{{State: "q1", Right: "a"}},
		{{State: "q0", Right: "a"}},
	}
	assert.Equal(t, want, views(res.Trace))
	assert.False(t, res.Accepted)
	assert.Equal(t, 2, res.Transitions)
}

func TestExplorer_AcceptStopsRound(t *testing.T) {
	tests := []struct {
		name        string
		machine     *domain.Machine
		final       []domain.ConfigView
		transitions int
	}{
		{
			name: "Accept Before Sibling",
			machine: dsl.New("fork").
				On("q0", "a").Stay("qacc", "a").
				On("q0", "a").Right("q1", "a").
				On("q1", "_").Right("q1", "_").
				MustBuild(),
			final:       []domain.ConfigView{{Left: "", State: "qacc", Right: "a"}},
			transitions: 2,
		},
		{
			name: "Sibling Before Accept",
			machine: dsl.New("fork").
				On("q0", "a").Right("q1", "a").
				On("q0", "a").Stay("qacc", "a").
				On("q1", "_").Right("q1", "_").
				MustBuild(),
			final: []domain.ConfigView{
				{Left: "a", State: "q1", Right: ""},
				{Left: "", State: "qacc", Right: "a"},
			},
			transitions: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewExplorer(tt.machine).Run(context.Background(), "a")
			require.NoError(t, err)

			assert.True(t, res.Accepted)
			require.Len(t, res.Trace, 2)
			assert.Equal(t, []domain.ConfigView{{Left: "", State: "q0", Right: "a"}}, res.Trace[0].Configurations)
			assert.Equal(t, tt.final, res.Trace[1].Configurations)
			assert.Equal(t, tt.transitions, res.Transitions)
			assert.Equal(t, tt.transitions, res.Trace[1].Transitions)
		})
	}
}

func TestExplorer_DepthBound(t *testing.T) {
	var halt *domain.HaltEvent
	e := NewExplorer(loadFixture(t, "runaway"),
		WithMaxDepth(10),
		WithHooks(domain.LifecycleHooks{
			OnHalt: func(_ context.Context, ev *domain.HaltEvent) { halt = ev },
		}),
	)

	res, err := e.Run(context.Background(), "a_")
	require.NoError(t, err)

	assert.Len(t, res.Trace, 10)
	assert.False(t, res.Accepted)
	assert.Equal(t, 10, res.Transitions)
	assert.Equal(t, 10, res.MaxDepth)
	require.NotNil(t, halt)
	assert.Equal(t, domain.HaltDepthBound, halt.Reason)
}

func TestExplorer_ZeroDepth(t *testing.T) {
	e := NewExplorer(loadFixture(t, "a_plus"), WithMaxDepth(0))

	res, err := e.Run(context.Background(), "a_")
	require.NoError(t, err)
	assert.Empty(t, res.Trace)
	assert.False(t, res.Accepted)
	assert.Zero(t, res.Transitions)
}

func TestExplorer_LeftEdgeRejects(t *testing.T) {
	e := NewExplorer(loadFixture(t, "left_edge"))

	res, err := e.Run(context.Background(), "a_")
	require.NoError(t, err)

	want := [][]domain.ConfigView{
		{{State: "q0", Right: "a"}},
		{{State: "qrej", Right: "a"}},
	}
	assert.Equal(t, want, views(res.Trace))
	assert.False(t, res.Accepted)
	assert.Equal(t, 1, res.Transitions)
}

func TestExplorer_UnknownInputSymbol(t *testing.T) {
	e := NewExplorer(loadFixture(t, "a_plus"))

	res, err := e.Run(context.Background(), "z_")
	require.NoError(t, err)

	want := [][]domain.ConfigView{
		{{State: "q0", Right: "z"}},
		{{State: "qrej", Right: "z"}},
	}
	assert.Equal(t, want, views(res.Trace))
	assert.Equal(t, 1, res.Transitions, "the implicit reject counts as a transition")

	// The shared index must not learn the symbol.
	_, ok := e.Index().symbols.lookup("z")
	assert.False(t, ok)
}

func TestExplorer_Invariants(t *testing.T) {
	e := NewExplorer(loadFixture(t, "a_plus"), WithMaxDepth(20))

	res, err := e.Run(context.Background(), "aaaa_")
	require.NoError(t, err)

	prev := 0
	for i, snap := range res.Trace {
		assert.Equal(t, i, snap.Depth)
		assert.NotEmpty(t, snap.Configurations)
		assert.GreaterOrEqual(t, snap.Transitions, prev, "transitions never decrease")

		// every candidate taken at depth i queues at most one configuration for i+1
		if i+1 < len(res.Trace) {
			assert.LessOrEqual(t, len(res.Trace[i+1].Configurations), snap.Transitions-prev)
		}
		prev = snap.Transitions
	}
	assert.Equal(t, prev, res.Transitions)
}

func TestExplorer_Repeatable(t *testing.T) {
	e := NewExplorer(loadFixture(t, "equal_01s"))

	first, err := e.Run(context.Background(), "0101_")
	require.NoError(t, err)
	second, err := e.Run(context.Background(), "0101_")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExplorer_FrontierCap(t *testing.T) {
	e := NewExplorer(loadFixture(t, "a_plus"), WithMaxFrontier(1))

	_, err := e.Run(context.Background(), "aaa_")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFrontierExhausted))
}

func TestExplorer_ContextCancelled(t *testing.T) {
	e := NewExplorer(loadFixture(t, "runaway"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, "a_")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExplorer_Hooks(t *testing.T) {
	var (
		started bool
		depths  []int
		halt    *domain.HaltEvent
	)
	e := NewExplorer(loadFixture(t, "a_plus"), WithHooks(domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, ev *domain.RunEvent) {
			started = true
			assert.Equal(t, "aaa_", ev.Input)
			assert.Equal(t, "a_plus", ev.Machine)
		},
		OnDepth: func(_ context.Context, ev *domain.DepthEvent) {
			depths = append(depths, ev.Depth)
		},
		OnHalt: func(_ context.Context, ev *domain.HaltEvent) { halt = ev },
	}))

	_, err := e.Run(context.Background(), "aaa_")
	require.NoError(t, err)

	assert.True(t, started)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, depths)
	require.NotNil(t, halt)
	assert.True(t, halt.Accepted)
	assert.Equal(t, domain.HaltAccepted, halt.Reason)
	assert.Equal(t, 6, halt.Transitions)
	assert.Equal(t, 4, halt.Depth)
}

func TestExplorer_FrontierEmptyReason(t *testing.T) {
	var halt *domain.HaltEvent
	e := NewExplorer(loadFixture(t, "a_plus"), WithHooks(domain.LifecycleHooks{
		OnHalt: func(_ context.Context, ev *domain.HaltEvent) { halt = ev },
	}))

	res, err := e.Run(context.Background(), "b_")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	require.NotNil(t, halt)
	assert.Equal(t, domain.HaltExhausted, halt.Reason)
}
