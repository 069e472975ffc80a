package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/menube/internal/resolver"
	"github.com/aretw0/menube/pkg/domain"
)

// MoveUp highlights the previous sibling. It reports false at the first item.
func (e *Engine) MoveUp() bool {
	var moved bool
	e.locked(context.Background(), func(fx *effects) {
		moved = e.moveUp(fx)
	})
	return moved
}

// MoveDown highlights the next sibling. It reports false at the last item.
func (e *Engine) MoveDown() bool {
	var moved bool
	e.locked(context.Background(), func(fx *effects) {
		moved = e.moveDown(fx)
	})
	return moved
}

// Descend enters the highlighted submenu. It reports false when the
// highlighted node has no children.
func (e *Engine) Descend() bool {
	var moved bool
	e.locked(context.Background(), func(fx *effects) {
		moved, _ = e.descend(fx)
	})
	return moved
}

// BackOut returns to the parent menu, excising it first if it was produced
// by options expansion. It reports false at the top level.
func (e *Engine) BackOut() bool {
	var moved bool
	e.locked(context.Background(), func(fx *effects) {
		moved = e.backOut(fx)
	})
	return moved
}

// Restore moves the cursor to a previously saved path. An options submenu
// the cursor is in is excised first. Paths that do not resolve, or that
// enter an options submenu, are rejected without faulting the engine.
func (e *Engine) Restore(path domain.Path) error {
	var err error
	e.locked(context.Background(), func(fx *effects) {
		err = e.restore(fx, path)
	})
	return err
}

func (e *Engine) moveUp(fx *effects) bool {
	if e.fault != nil {
		return false
	}
	if e.path.Last() == 0 {
		return false
	}
	e.path[len(e.path)-1]--
	e.pathChanged(fx)
	return true
}

func (e *Engine) moveDown(fx *effects) bool {
	if e.fault != nil {
		return false
	}
	siblings, err := resolver.ActiveSiblings(e.root, e.path)
	if err != nil {
		e.setFault(fx, "move_down", err)
		return false
	}
	if e.path.Last() >= len(siblings)-1 {
		return false
	}
	e.path[len(e.path)-1]++
	e.pathChanged(fx)
	return true
}

func (e *Engine) descend(fx *effects) (bool, error) {
	if e.fault != nil {
		return false, domain.ErrEngineFaulted
	}
	cur, err := resolver.CurrentNode(e.root, e.path)
	if err != nil {
		return false, e.setFault(fx, "descend", err)
	}
	if !cur.HasChildren() {
		return false, nil
	}
	e.path = append(e.path, 0)
	e.pathChanged(fx)
	return true, nil
}

func (e *Engine) backOut(fx *effects) bool {
	if e.fault != nil {
		return false
	}
	if len(e.path) == 1 {
		return false
	}
	parent, err := resolver.ParentNode(e.root, e.path)
	if err != nil {
		e.setFault(fx, "back_out", err)
		return false
	}

	e.path = e.path[:len(e.path)-1]
	if parent.IsEphemeralMenu() {
		if err := e.excise(parent); err != nil {
			e.setFault(fx, "back_out", err)
			return false
		}
	}
	e.pathChanged(fx)
	return true
}

// excise puts the options node back where the ephemeral submenu sits.
// The path must already point at the submenu's own slot.
func (e *Engine) excise(menu *domain.Node) error {
	container, err := resolver.Container(e.root, e.path)
	if err != nil {
		return err
	}
	idx := e.path.Last()
	if idx >= len(container.Children) || container.Children[idx] != menu {
		return fmt.Errorf("%w: options menu %q not at %s", domain.ErrInvalidPath, menu.Label, e.path)
	}
	if menu.Origin == nil {
		return fmt.Errorf("%w: options menu %q has no origin", domain.ErrInvalidPath, menu.Label)
	}
	container.Children[idx] = menu.Origin
	e.logger.Debug("options menu excised", "label", menu.Label, "path", e.path.String())
	return nil
}

func (e *Engine) restore(fx *effects, path domain.Path) error {
	if e.fault != nil {
		return domain.ErrEngineFaulted
	}
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", domain.ErrInvalidPath)
	}

	// Collapse options levels so their nodes are back in place.
	durable := resolver.Durable(e.root, e.path)
	for len(e.path) > len(durable) {
		if !e.backOut(fx) {
			return e.fault
		}
	}

	if err := resolver.Validate(e.root, path); err != nil {
		return err
	}
	if !resolver.Durable(e.root, path).Equal(path) {
		return fmt.Errorf("%w: %s enters an options menu", domain.ErrInvalidPath, path)
	}
	if e.path.Equal(path) {
		return nil
	}
	e.path = path.Clone()
	e.pathChanged(fx)
	return nil
}
