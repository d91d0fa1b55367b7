package domain

// CategoryAll is the distinguished category tag that matches everything.
const CategoryAll = "all"

// QueryDescriptor parameterizes a catalog query. Matching is always
// evaluated by the remote service, never locally.
type QueryDescriptor struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

// IsEmpty reports whether the descriptor selects the unfiltered catalog.
func (q QueryDescriptor) IsEmpty() bool {
	return q.Search == "" && (q.Category == "" || q.Category == CategoryAll)
}
