package cppast

// Tree is an arena of syntax nodes. Node 0 is the translation unit.
type Tree struct {
	nodes []Node
}

// Root returns the translation unit node.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID. The pointer is valid for the
// lifetime of the tree and must not be modified.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Kind returns the kind of id.
func (t *Tree) Kind(id NodeID) NodeKind {
	return t.nodes[id].Kind
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].Parent
}

// Children returns the direct children of id in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].Children
}

// Is reports whether id is valid and has the given kind.
func (t *Tree) Is(id NodeID, kind NodeKind) bool {
	return id.Valid() && int(id) < len(t.nodes) && t.nodes[id].Kind == kind
}

// As returns the attributes of id as T, or the zero value when id is
// invalid or its attributes have another type.
func As[T Attrs](t *Tree, id NodeID) T {
	var zero T
	if !id.Valid() || int(id) >= len(t.nodes) {
		return zero
	}
	if a, ok := t.nodes[id].Attrs.(T); ok {
		return a
	}
	return zero
}

// Walk visits id and its descendants in pre-order. Returning false from
// visit skips the node's children.
func (t *Tree) Walk(id NodeID, visit func(NodeID) bool) {
	if !id.Valid() {
		return
	}
	if !visit(id) {
		return
	}
	for _, child := range t.nodes[id].Children {
		t.Walk(child, visit)
	}
}

// Ancestor returns the nearest strict ancestor of id with the given kind.
func (t *Tree) Ancestor(id NodeID, kind NodeKind) NodeID {
	for p := t.Parent(id); p.Valid(); p = t.Parent(p) {
		if t.nodes[p].Kind == kind {
			return p
		}
	}
	return NoNode
}

// IsAncestor reports whether anc is id or one of its ancestors.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for ; id.Valid(); id = t.Parent(id) {
		if id == anc {
			return true
		}
	}
	return false
}

// add appends a node and adopts the valid children.
func (t *Tree) add(kind NodeKind, first, last int, attrs Attrs, children ...NodeID) NodeID {
	id := NodeID(len(t.nodes))
	kids := make([]NodeID, 0, len(children))
	for _, c := range children {
		if c.Valid() {
			t.nodes[c].Parent = id
			kids = append(kids, c)
		}
	}
	t.nodes = append(t.nodes, Node{
		Kind:       kind,
		Parent:     NoNode,
		FirstToken: first,
		LastToken:  last,
		Children:   kids,
		Attrs:      attrs,
	})
	return id
}

// setRoot fills the reserved root slot.
func (t *Tree) setRoot(first, last int, children []NodeID) {
	for _, c := range children {
		t.nodes[c].Parent = 0
	}
	t.nodes[0] = Node{
		Kind:       KindTranslationUnit,
		Parent:     NoNode,
		FirstToken: first,
		LastToken:  last,
		Children:   children,
	}
}
