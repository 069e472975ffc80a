package ports

import (
	"context"

	"github.com/aretw0/menube/pkg/domain"
)

// MenuLoader defines how the engine receives its menu tree.
// Includes (menus defined in other sources) must already be resolved.
type MenuLoader interface {
	Load(ctx context.Context) ([]*domain.Node, error)
}
