package canvas

// RightChildren returns the right-side children of the node, in edge order.
// Self-loops and repeated targets are skipped.
func RightChildren(r Reader, id string) []Node {
	var children []Node
	seen := make(map[string]bool)
	for _, e := range r.EdgesOf(id) {
		if e.FromNode != id || !e.IsChildLink() || e.ToNode == id || seen[e.ToNode] {
			continue
		}
		n, ok := r.Node(e.ToNode)
		if !ok {
			continue
		}
		seen[e.ToNode] = true
		children = append(children, n)
	}
	return children
}

// Parent returns the node this node is a right-side child of.
// When several qualify, the first incoming edge wins.
func Parent(r Reader, id string) (Node, bool) {
	for _, e := range r.EdgesOf(id) {
		if e.ToNode != id || !e.IsChildLink() || e.FromNode == id {
			continue
		}
		if n, ok := r.Node(e.FromNode); ok {
			return n, true
		}
	}
	return Node{}, false
}

// Siblings returns the right-side children of the node's parent, including
// the node itself. ok is false for root nodes.
func Siblings(r Reader, id string) (parent Node, siblings []Node, ok bool) {
	parent, ok = Parent(r, id)
	if !ok {
		return Node{}, nil, false
	}
	return parent, RightChildren(r, parent.ID), true
}

// Selected returns the selected node when it exists and is not being edited.
// It is the precondition shared by navigation and node creation.
func Selected(c Canvas) (Node, error) {
	n, ok := c.Selection()
	if !ok {
		return Node{}, ErrNoSelection
	}
	if c.IsEditing(n.ID) {
		return Node{}, ErrInvalidState
	}
	return n, nil
}
