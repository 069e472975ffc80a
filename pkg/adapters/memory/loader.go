package memory

import (
	"context"

	"github.com/aretw0/menube/pkg/domain"
)

// Loader implements ports.MenuLoader from an in-memory tree.
type Loader struct {
	nodes []*domain.Node
}

// NewLoader creates a Loader serving a copy of the given nodes.
func NewLoader(nodes ...*domain.Node) *Loader {
	return &Loader{nodes: domain.CloneNodes(nodes)}
}

// Load returns a fresh deep copy of the tree, so every engine owns its own.
func (l *Loader) Load(ctx context.Context) ([]*domain.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return domain.CloneNodes(l.nodes), nil
}
