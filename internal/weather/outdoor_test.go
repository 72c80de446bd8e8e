package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

func TestIsOutdoor(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Go swimming", true},
		{"Morning RUN", true},
		{"Meet Anna at noon", true},
		{"read a book", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOutdoor(tt.text, DefaultKeywords))
		})
	}
}

func TestHasOutdoorTask(t *testing.T) {
	tasks := []model.Task{{Task: "go swimming"}, {Task: "read a book"}}
	assert.True(t, HasOutdoorTask(tasks, DefaultKeywords))
	assert.False(t, HasOutdoorTask(tasks[1:], DefaultKeywords))
	assert.False(t, HasOutdoorTask(nil, DefaultKeywords))
	assert.False(t, HasOutdoorTask(tasks, nil))
}
