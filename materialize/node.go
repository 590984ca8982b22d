package materialize

// Node is one element of the output document tree, built bottom-up by the
// Builder and rendered by Serialize. Shaped after xml_parser.go's own
// Node, but write-oriented: Text instead of accumulated Content, and no
// Parent back-pointer since the builder never needs to walk upward.
type Node struct {
	Local    string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// Attr is one rendered attribute.
type Attr struct {
	Name  string
	Value string
}

func newNode(local string) *Node {
	return &Node{Local: local}
}

func (n *Node) addAttr(name, value string) {
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

func (n *Node) addChild(c *Node) {
	n.Children = append(n.Children, c)
}

// NewNode constructs an empty Node named local, for callers outside this
// package building trees by their own traversal rules.
func NewNode(local string) *Node {
	return newNode(local)
}

// AddAttr appends one rendered attribute.
func (n *Node) AddAttr(name, value string) {
	n.addAttr(name, value)
}

// AddChild appends c as the last child.
func (n *Node) AddChild(c *Node) {
	n.addChild(c)
}
