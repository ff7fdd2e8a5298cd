// Package filter holds the predicates that select tree nodes and the engine
// that walks a built tree collecting the nodes any predicate accepts.
package filter

import (
	"fmt"

	"rind/internal/domain"
)

// Predicate decides whether a single node matches. Implementations are
// immutable values and safe for concurrent use.
type Predicate interface {
	Apply(node *domain.Node) bool
}

// SizeFilter matches nodes strictly larger than Threshold bytes.
type SizeFilter struct {
	Threshold int64
}

// DateFilter matches nodes created strictly after Threshold (Unix seconds).
type DateFilter struct {
	Threshold int64
}

// ExtensionFilter matches nodes whose extension equals Extension byte for byte.
type ExtensionFilter struct {
	Extension string
}

func NewSizeFilter(threshold int64) SizeFilter {
	return SizeFilter{Threshold: threshold}
}

func NewDateFilter(threshold int64) DateFilter {
	return DateFilter{Threshold: threshold}
}

func NewExtensionFilter(extension string) ExtensionFilter {
	return ExtensionFilter{Extension: extension}
}

func (f SizeFilter) Apply(node *domain.Node) bool {
	return node.Size() > f.Threshold
}

func (f DateFilter) Apply(node *domain.Node) bool {
	return node.CreateTime() > f.Threshold
}

func (f ExtensionFilter) Apply(node *domain.Node) bool {
	return node.Extension() == f.Extension
}

func (f SizeFilter) String() string {
	return fmt.Sprintf("size>%d", f.Threshold)
}

func (f DateFilter) String() string {
	return fmt.Sprintf("created>%d", f.Threshold)
}

func (f ExtensionFilter) String() string {
	return fmt.Sprintf("ext=%q", f.Extension)
}
