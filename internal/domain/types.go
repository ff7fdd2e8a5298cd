package domain

// SortMode orders matches for display only; query results keep traversal order.
type SortMode string

const (
	SortByFound   SortMode = "found"
	SortByName    SortMode = "name"
	SortBySize    SortMode = "size"
	SortByCreated SortMode = "created"
)
