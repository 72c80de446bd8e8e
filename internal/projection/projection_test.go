package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

func fixture() []model.Task {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: "a", Task: "walk the dog", Status: model.StatusTodo, Priority: model.PriorityLow, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", Task: "pay bills", Status: model.StatusDone, Priority: model.PriorityHigh, CreatedAt: base},
		{ID: "c", Task: "read a book", Status: model.StatusInProgress, Priority: model.PriorityUnset, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "d", Task: "call mom", Status: model.StatusTodo, Priority: model.PriorityMedium, CreatedAt: base.Add(1 * time.Hour)},
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter model.Filter
		want   []string
	}{
		{name: "identity", filter: model.FilterNone, want: []string{"a", "b", "c", "d"}},
		{name: "latest first", filter: model.FilterLatestFirst, want: []string{"c", "a", "d", "b"}},
		{name: "oldest first", filter: model.FilterOldestFirst, want: []string{"b", "d", "a", "c"}},
		{name: "high to low", filter: model.FilterHighLow, want: []string{"b", "d", "a", "c"}},
		{name: "low to high", filter: model.FilterLowHigh, want: []string{"c", "a", "d", "b"}},
		{name: "only high", filter: model.FilterHigh, want: []string{"b"}},
		{name: "only medium", filter: model.FilterMedium, want: []string{"d"}},
		{name: "only low", filter: model.FilterLow, want: []string{"a"}},
		{name: "only todo", filter: model.FilterTodo, want: []string{"a", "d"}},
		{name: "only in progress", filter: model.FilterInProgress, want: []string{"c"}},
		{name: "only done", filter: model.FilterDone, want: []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := fixture()
			got := Apply(tasks, tt.filter)

			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, []string{"a", "b", "c", "d"}, ids(tasks), "input must not be mutated")

			again := Apply(tasks, tt.filter)
			assert.Equal(t, got, again, "projection should be idempotent")
		})
	}
}

func TestApply_HighLowReversesLowHigh(t *testing.T) {
	tasks := fixture()

	highLow := ids(Apply(tasks, model.FilterHighLow))
	lowHigh := ids(Apply(tasks, model.FilterLowHigh))

	require.Len(t, lowHigh, len(highLow))
	for i := range highLow {
		assert.Equal(t, highLow[i], lowHigh[len(lowHigh)-1-i])
	}
	assert.Equal(t, "c", highLow[len(highLow)-1], "unset priority sorts last in high-low")
	assert.Equal(t, "c", lowHigh[0], "unset priority sorts first in low-high")
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, model.FilterNone)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMove(t *testing.T) {
	tasks := []model.Task{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}}

	t.Run("index 2 to 0", func(t *testing.T) {
		got, err := Move(tasks, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "1", "2", "4", "5"}, ids(got))
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(tasks))
	})

	t.Run("index 0 to 4", func(t *testing.T) {
		got, err := Move(tasks, 0, 4)
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "3", "4", "5", "1"}, ids(got))
	})

	t.Run("same index", func(t *testing.T) {
		got, err := Move(tasks, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, ids(tasks), ids(got))
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := Move(tasks, 5, 0)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)

		_, err = Move(tasks, 0, -1)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	})
}
