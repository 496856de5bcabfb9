package ports

import (
	"context"
	"testing"
	"time"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SampleResult returns a small accepted result with the given ID, suitable for store tests.
func SampleResult(id string, createdAt time.Time) *domain.Result {
	return &domain.Result{
		ID:       id,
		Machine:  "a_plus",
		Input:    "a_",
		MaxDepth: 100,
		Trace: domain.Trace{
			{Depth: 0, Configurations: []domain.ConfigView{{State: "q0", Right: "a"}}, Transitions: 1},
			{Depth: 1, Configurations: []domain.ConfigView{{Left: "a", State: "q1"}}, Transitions: 2},
			{Depth: 2, Configurations: []domain.ConfigView{{Left: "a", State: "qacc"}}, Transitions: 2},
		},
		Accepted:    true,
		Transitions: 2,
		CreatedAt:   createdAt.UTC().Truncate(time.Second),
	}
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	resultID := "contract-test-result-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		result := SampleResult(resultID, time.Now())

		err := store.Save(ctx, result)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, resultID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, result.Machine, loaded.Machine)
		assert.Equal(t, result.Input, loaded.Input)
		assert.Equal(t, result.Accepted, loaded.Accepted)
		assert.Equal(t, result.Transitions, loaded.Transitions)
		assert.Equal(t, result.Trace, loaded.Trace)
		assert.True(t, result.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save Without ID", func(t *testing.T) {
		err := store.Save(ctx, SampleResult("", time.Now()))
		assert.Error(t, err)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+resultID)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, SampleResult(resultID, time.Now()))
		require.NoError(t, err)

		err = store.Delete(ctx, resultID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, resultID)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")

		assert.NoError(t, store.Delete(ctx, resultID), "Delete is idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := resultID + "-1"
		id2 := resultID + "-2"
		older := time.Now().Add(-time.Hour)
		require.NoError(t, store.Save(ctx, SampleResult(id1, older)))
		require.NoError(t, store.Save(ctx, SampleResult(id2, time.Now())))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		summaries, err := store.List(ctx)
		require.NoError(t, err)

		pos := make(map[string]int)
		for i, s := range summaries {
			pos[s.ID] = i
		}
		require.Contains(t, pos, id1)
		require.Contains(t, pos, id2)
		assert.Less(t, pos[id2], pos[id1], "newest first")

		s := summaries[pos[id2]]
		assert.Equal(t, "a_plus", s.Machine)
		assert.True(t, s.Accepted)
		assert.Equal(t, 2, s.Depth)
		assert.Equal(t, 2, s.Transitions)
	})
}
