package model

// ProjectNode is one segment of a project path with the summed duration of
// every leaf at or below it.
type ProjectNode struct {
	Name     string
	Duration int64
	Children []*ProjectNode
	index    map[string]*ProjectNode
}

// Child returns the direct child with the given name.
func (n *ProjectNode) Child(name string) (*ProjectNode, bool) {
	c, ok := n.index[name]
	return c, ok
}

// ChildOrCreate returns the named child, appending it when missing.
func (n *ProjectNode) ChildOrCreate(name string) *ProjectNode {
	if n.index == nil {
		n.index = make(map[string]*ProjectNode)
	}
	if c, ok := n.index[name]; ok {
		return c
	}
	c := &ProjectNode{Name: name}
	n.index[name] = c
	n.Children = append(n.Children, c)
	return c
}

// ProjectTree is the set of root categories. It is built once and not mutated after.
type ProjectTree struct {
	root ProjectNode
}

// NewProjectTree returns an empty tree.
func NewProjectTree() *ProjectTree {
	return &ProjectTree{}
}

// Roots returns the root categories in insertion order.
func (t *ProjectTree) Roots() []*ProjectNode {
	return t.root.Children
}

// Root returns the named root category.
func (t *ProjectTree) Root(name string) (*ProjectNode, bool) {
	return t.root.Child(name)
}

// Insert adds duration to every node along segments, creating nodes as needed.
func (t *ProjectTree) Insert(segments []string, duration int64) {
	node := &t.root
	for _, seg := range segments {
		node = node.ChildOrCreate(seg)
		node.Duration += duration
	}
	t.root.Duration += duration
}

// Total returns the sum of all inserted durations.
func (t *ProjectTree) Total() int64 {
	return t.root.Duration
}

// Empty reports whether nothing was inserted.
func (t *ProjectTree) Empty() bool {
	return len(t.root.Children) == 0
}
