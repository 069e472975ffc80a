package dsl

import (
	"github.com/aretw0/menube/pkg/adapters/memory"
	"github.com/aretw0/menube/pkg/domain"
)

// Builder manages the construction of the top-level menu.
type Builder struct {
	items []*NodeBuilder
}

// New creates a new menu builder.
func New() *Builder {
	return &Builder{}
}

// Add appends a top-level item. Without further configuration it is a plain label.
func (b *Builder) Add(label string) *NodeBuilder {
	nb := newNodeBuilder(label)
	b.items = append(b.items, nb)
	return nb
}

// Nodes returns a fresh copy of the configured tree.
func (b *Builder) Nodes() []*domain.Node {
	out := make([]*domain.Node, len(b.items))
	for i, nb := range b.items {
		out[i] = nb.Build()
	}
	return out
}

// Build compiles the menu into a MemoryLoader.
func (b *Builder) Build() *memory.Loader {
	return memory.NewLoader(b.Nodes()...)
}
