package model

// Filter selects how the task collection is projected for display.
type Filter string

const (
	FilterNone        Filter = ""
	FilterLatestFirst Filter = "latest-first"
	FilterOldestFirst Filter = "oldest-first"
	FilterHighLow     Filter = "high-low"
	FilterLowHigh     Filter = "low-high"
	FilterHigh        Filter = "high"
	FilterMedium      Filter = "medium"
	FilterLow         Filter = "low"
	FilterTodo        Filter = "todo"
	FilterInProgress  Filter = "in-progress"
	FilterDone        Filter = "done"
)

var filters = map[Filter]struct{}{
	FilterNone: {}, FilterLatestFirst: {}, FilterOldestFirst: {},
	FilterHighLow: {}, FilterLowHigh: {},
	FilterHigh: {}, FilterMedium: {}, FilterLow: {},
	FilterTodo: {}, FilterInProgress: {}, FilterDone: {},
}

func (f Filter) Valid() bool {
	_, ok := filters[f]
	return ok
}

// Identity reports whether the projection keeps the canonical order.
func (f Filter) Identity() bool {
	return f == FilterNone
}
