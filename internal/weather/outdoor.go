package weather

import (
	"strings"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

// DefaultKeywords mark a task as happening outdoors. Matching is a plain
// lower-cased substring test, so "go" also matches "good".
var DefaultKeywords = []string{
	"swim", "walk", "run", "office", "school", "college", "shopping",
	"market", "meet", "go", "drive", "gym", "attend",
}

func IsOutdoor(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func HasOutdoorTask(tasks []model.Task, keywords []string) bool {
	for _, t := range tasks {
		if IsOutdoor(t.Task, keywords) {
			return true
		}
	}
	return false
}
