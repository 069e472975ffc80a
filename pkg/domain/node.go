package domain

// Kind selects which fields of a Node are meaningful.
type Kind string

const (
	// KindSubmenu holds an ordered list of child nodes.
	// A submenu without children is a plain label: activating it does nothing.
	KindSubmenu Kind = "submenu"
	// KindCommand runs an external command line when activated.
	KindCommand Kind = "command"
	// KindNotify publishes a named event with static arguments.
	KindNotify Kind = "notify"
	// KindOptions runs a discovery command and turns its output lines into a submenu.
	KindOptions Kind = "options"
	// KindOptionItem is a leaf produced by options expansion. It never appears in a loaded tree.
	KindOptionItem Kind = "option_item"
)

// Node represents one entry in the menu tree.
type Node struct {
	Label string `json:"label" yaml:"label"`
	Kind  Kind   `json:"kind" yaml:"kind"`

	// Submenu
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`

	// Ephemeral marks nodes injected at runtime by options expansion.
	// An ephemeral submenu is excised from the tree when the cursor backs out of it.
	Ephemeral bool `json:"ephemeral,omitempty" yaml:"ephemeral,omitempty"`

	// Origin is the options node an ephemeral submenu replaced. It is put back on excision.
	Origin *Node `json:"-" yaml:"-"`

	// Command
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	// NotifyOn names the event published with a command result.
	// Used by Command, Options and (copied from Options) ephemeral submenus.
	NotifyOn string `json:"notify_on,omitempty" yaml:"notify_on,omitempty"`

	// Notify
	Event     string `json:"event,omitempty" yaml:"event,omitempty"`
	Arguments []any  `json:"arguments,omitempty" yaml:"arguments,omitempty"`

	// Options
	DiscoveryCommand string `json:"discovery_command,omitempty" yaml:"discovery_command,omitempty"`
	ItemScript       string `json:"item_script,omitempty" yaml:"item_script,omitempty"`
}

// NewRoot wraps the top-level nodes of a menu in a synthetic root submenu.
func NewRoot(nodes []*Node) *Node {
	return &Node{Label: "", Kind: KindSubmenu, Children: nodes}
}

// IsSubmenu reports whether the node can hold children.
func (n *Node) IsSubmenu() bool {
	return n != nil && n.Kind == KindSubmenu
}

// HasChildren reports whether the node is a submenu that can be descended into.
func (n *Node) HasChildren() bool {
	return n.IsSubmenu() && len(n.Children) > 0
}

// IsEphemeralMenu reports whether the node is a submenu injected by options expansion.
func (n *Node) IsEphemeralMenu() bool {
	return n.IsSubmenu() && n.Ephemeral
}

// Labels returns the labels of the given nodes in order.
func Labels(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

// Clone returns a deep copy of the node and its children.
// Origin is shared: it points at a node owned by the tree being cloned from.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Children != nil {
		out.Children = CloneNodes(n.Children)
	}
	if n.Arguments != nil {
		out.Arguments = append([]any(nil), n.Arguments...)
	}
	return &out
}

// CloneNodes deep-copies a sibling list.
func CloneNodes(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
