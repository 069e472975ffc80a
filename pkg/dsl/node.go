package dsl

import "github.com/aretw0/menube/pkg/domain"

// NodeBuilder provides a fluent API for configuring a menu item.
type NodeBuilder struct {
	node     domain.Node
	children []*NodeBuilder
}

func newNodeBuilder(label string) *NodeBuilder {
	return &NodeBuilder{node: domain.Node{Label: label, Kind: domain.KindSubmenu}}
}

// Add appends a child item and turns this item into a submenu.
func (n *NodeBuilder) Add(label string) *NodeBuilder {
	n.node.Kind = domain.KindSubmenu
	child := newNodeBuilder(label)
	n.children = append(n.children, child)
	return child
}

// Command makes the item run a command line when activated.
func (n *NodeBuilder) Command(commandLine string) *NodeBuilder {
	n.node.Kind = domain.KindCommand
	n.node.Command = commandLine
	return n
}

// Emit makes the item publish a named event with static arguments.
func (n *NodeBuilder) Emit(event string, args ...any) *NodeBuilder {
	n.node.Kind = domain.KindNotify
	n.node.Event = event
	n.node.Arguments = args
	return n
}

// Options makes the item build a submenu from the output lines of discovery.
// Picking a line runs itemScript with the line appended as its last argument.
func (n *NodeBuilder) Options(discovery, itemScript string) *NodeBuilder {
	n.node.Kind = domain.KindOptions
	n.node.DiscoveryCommand = discovery
	n.node.ItemScript = itemScript
	return n
}

// NotifyOn sets the event published with the command result (Command and Options items).
func (n *NodeBuilder) NotifyOn(event string) *NodeBuilder {
	n.node.NotifyOn = event
	return n
}

// Build returns a fresh copy of the configured node and its children.
func (n *NodeBuilder) Build() *domain.Node {
	out := n.node
	out.Children = nil
	if out.Kind == domain.KindSubmenu && len(n.children) > 0 {
		out.Children = make([]*domain.Node, len(n.children))
		for i, c := range n.children {
			out.Children[i] = c.Build()
		}
	}
	if n.node.Arguments != nil {
		out.Arguments = append([]any(nil), n.node.Arguments...)
	}
	return &out
}
