// Package fixture is a minimal, hand-built in-memory implementation of
// ast.Node, used by the resolver's tests and by the CLI driver in place
// of a real parser. It is not a parser: callers build trees directly with
// Node's fields.
package fixture

import "github.com/roblourens/php-language-server/ast"

// Node is a mutable, in-memory AST node satisfying ast.Node and
// ast.TypedChildNode. Tests construct a tree by hand and link Parent
// themselves (Link does this for a subtree).
type Node struct {
	IDValue       uint64
	KindValue     ast.Kind
	TextValue     string
	Offset        int
	NodeWidth     int
	URIValue      string
	ParentNode    *Node
	ChildNodes    []*Node
	DocCommentRaw string
	ResolvedValue string
	NameValue     string
	Roles         map[string]*Node
}

func (n *Node) ID() uint64          { return n.IDValue }
func (n *Node) Kind() ast.Kind      { return n.KindValue }
func (n *Node) Text() string        { return n.TextValue }
func (n *Node) StartOffset() int    { return n.Offset }
func (n *Node) Width() int          { return n.NodeWidth }
func (n *Node) URI() string         { return n.URIValue }
func (n *Node) DocComment() string  { return n.DocCommentRaw }
func (n *Node) ResolvedName() string { return n.ResolvedValue }
func (n *Node) Name() string        { return n.NameValue }

func (n *Node) Parent() ast.Node {
	if n.ParentNode == nil {
		return nil
	}
	return n.ParentNode
}

func (n *Node) Children() []ast.Node {
	out := make([]ast.Node, len(n.ChildNodes))
	for i, c := range n.ChildNodes {
		out[i] = c
	}
	return out
}

func (n *Node) Child(role string) ast.Node {
	if n.Roles == nil {
		return nil
	}
	c, ok := n.Roles[role]
	if !ok || c == nil {
		return nil
	}
	return c
}

// AddChild appends child to n's child list and sets its parent pointer.
func (n *Node) AddChild(child *Node) *Node {
	child.ParentNode = n
	n.ChildNodes = append(n.ChildNodes, child)
	return n
}

// SetRole records child under the given typed-child role, without adding
// it to the positional child list (callers typically call both AddChild
// and SetRole for the same node when a real parser would expose a node
// both positionally and by role).
func (n *Node) SetRole(role string, child *Node) *Node {
	if n.Roles == nil {
		n.Roles = make(map[string]*Node)
	}
	n.Roles[role] = child
	if child != nil {
		child.ParentNode = n
	}
	return n
}

// Link walks the subtree rooted at n and assigns sequential IDs, useful
// after building a fixture tree purely through struct literals.
func Link(n *Node, nextID *uint64) {
	n.IDValue = *nextID
	*nextID++
	for _, c := range n.ChildNodes {
		c.ParentNode = n
		Link(c, nextID)
	}
}
