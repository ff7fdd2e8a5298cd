package filter

import (
	"rind/internal/domain"
)

// Engine applies an ordered predicate set to built trees. AddFilter must not
// be called while a query is running; queries themselves never mutate the
// engine or the tree.
type Engine struct {
	filters []Predicate
}

func NewEngine(filters ...Predicate) *Engine {
	return &Engine{filters: append([]Predicate(nil), filters...)}
}

func (engine *Engine) AddFilter(filter Predicate) {
	engine.filters = append(engine.filters, filter)
}

// Filters returns a copy of the predicate set in evaluation order.
func (engine *Engine) Filters() []Predicate {
	return append([]Predicate(nil), engine.filters...)
}

// Traverse returns the names of every descendant of root accepted by at
// least one predicate.
func (engine *Engine) Traverse(root *domain.Node) []string {
	return Filter(root, engine.filters)
}

func (engine *Engine) Matches(root *domain.Node) []*domain.Node {
	return Matches(root, engine.filters)
}

// Filter returns the names of the nodes selected by Matches, in the same order.
func Filter(root *domain.Node, predicates []Predicate) []string {
	matched := Matches(root, predicates)
	names := make([]string, 0, len(matched))
	for _, node := range matched {
		names = append(names, node.Name())
	}
	return names
}

// Matches walks the descendants of root depth first. For a directory child
// its subtree is collected before the child itself is tested, so the deepest
// matches of a branch come first. The root is never tested and a node is
// reported once no matter how many predicates accept it.
func Matches(root *domain.Node, predicates []Predicate) []*domain.Node {
	results := []*domain.Node{}
	if root == nil || len(predicates) == 0 {
		return results
	}
	return collect(root, predicates, results)
}

func collect(node *domain.Node, predicates []Predicate, results []*domain.Node) []*domain.Node {
	for _, child := range node.Children() {
		if child.IsDir() {
			results = collect(child, predicates, results)
		}
		if anyMatch(child, predicates) {
			results = append(results, child)
		}
	}
	return results
}

func anyMatch(node *domain.Node, predicates []Predicate) bool {
	for _, predicate := range predicates {
		if predicate.Apply(node) {
			return true
		}
	}
	return false
}
