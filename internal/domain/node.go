package domain

import (
	"errors"
	"path/filepath"
	"strings"
)

type NodeType int

const (
	NodeFile NodeType = iota
	NodeDir
)

func (t NodeType) String() string {
	if t == NodeDir {
		return "dir"
	}
	return "file"
}

var (
	ErrNotDirectory = errors.New("cannot add child to a file node")
	ErrNilChild     = errors.New("child node is nil")
	ErrAttached     = errors.New("child node already has a parent")
	ErrCycle        = errors.New("child node is an ancestor of its parent")
)

// Node is one file or directory in the search tree. Fields are set once by
// NewNode; the only mutation is AddChild during the build phase.
type Node struct {
	name       string
	nodeType   NodeType
	size       int64
	createTime int64
	extension  string
	parent     *Node
	children   []*Node
}

// NewNode returns a node with no children. Inputs are stored as given.
func NewNode(name string, isDirectory bool, size int64, extension string, createTime int64) *Node {
	nodeType := NodeFile
	if isDirectory {
		nodeType = NodeDir
	}
	return &Node{
		name:       name,
		nodeType:   nodeType,
		size:       size,
		createTime: createTime,
		extension:  extension,
	}
}

// AddChild appends child and makes node its owner.
func (node *Node) AddChild(child *Node) error {
	if child == nil {
		return ErrNilChild
	}
	if node.nodeType != NodeDir {
		return ErrNotDirectory
	}
	if child.parent != nil {
		return ErrAttached
	}
	for ancestor := node; ancestor != nil; ancestor = ancestor.parent {
		if ancestor == child {
			return ErrCycle
		}
	}
	child.parent = node
	node.children = append(node.children, child)
	return nil
}

func (node *Node) Name() string { return node.name }
func (node *Node) Type() NodeType { return node.nodeType }
func (node *Node) IsDir() bool { return node.nodeType == NodeDir }
func (node *Node) Size() int64 { return node.size }
func (node *Node) CreateTime() int64 { return node.createTime }
func (node *Node) Extension() string { return node.extension }
func (node *Node) ChildCount() int { return len(node.children) }
func (node *Node) HasParent() bool { return node.parent != nil }

// Children returns a copy of the child list in insertion order.
func (node *Node) Children() []*Node {
	if len(node.children) == 0 {
		return nil
	}
	return append([]*Node(nil), node.children...)
}

// Len counts every descendant of node.
func (node *Node) Len() int {
	count := 0
	for _, child := range node.children {
		count += 1 + child.Len()
	}
	return count
}

// ExtensionOf returns the text after the last '.' of the final path element,
// or "" when there is none.
func ExtensionOf(name string) string {
	base := filepath.Base(name)
	index := strings.LastIndex(base, ".")
	if index < 0 {
		return ""
	}
	return base[index+1:]
}
