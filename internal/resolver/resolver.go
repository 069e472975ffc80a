// Package resolver maps a selection path onto a menu tree.
//
// Every function is pure: it reads the tree and the path and never mutates either.
// Failures are reported as domain.ErrInvalidPath or domain.ErrEmptyMenu, wrapped
// with the depth at which the walk stopped.
package resolver

import (
	"fmt"

	"github.com/aretw0/menube/pkg/domain"
)

// Container returns the submenu whose children the last path element indexes into.
// At depth 1 this is the synthetic root.
func Container(root *domain.Node, path domain.Path) (*domain.Node, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidPath)
	}
	if !root.IsSubmenu() {
		return nil, fmt.Errorf("%w: root is not a menu", domain.ErrInvalidPath)
	}

	cur := root
	for depth, idx := range path[:len(path)-1] {
		if idx < 0 || idx >= len(cur.Children) {
			return nil, fmt.Errorf("%w: index %d out of range at depth %d (%d items)",
				domain.ErrInvalidPath, idx, depth, len(cur.Children))
		}
		next := cur.Children[idx]
		if !next.IsSubmenu() {
			return nil, fmt.Errorf("%w: %q at depth %d is a %s, not a menu",
				domain.ErrInvalidPath, next.Label, depth, next.Kind)
		}
		cur = next
	}
	return cur, nil
}

// ActiveSiblings returns the sibling list the last path element indexes into.
func ActiveSiblings(root *domain.Node, path domain.Path) ([]*domain.Node, error) {
	c, err := Container(root, path)
	if err != nil {
		return nil, err
	}
	return c.Children, nil
}

// CurrentNode returns the highlighted node.
func CurrentNode(root *domain.Node, path domain.Path) (*domain.Node, error) {
	siblings, err := ActiveSiblings(root, path)
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, fmt.Errorf("%w at depth %d", domain.ErrEmptyMenu, len(path)-1)
	}
	last := path.Last()
	if last < 0 || last >= len(siblings) {
		return nil, fmt.Errorf("%w: index %d out of range at depth %d (%d items)",
			domain.ErrInvalidPath, last, len(path)-1, len(siblings))
	}
	return siblings[last], nil
}

// ParentNode returns the submenu that owns the active siblings, or nil at the top level.
func ParentNode(root *domain.Node, path domain.Path) (*domain.Node, error) {
	if len(path) == 1 {
		return nil, nil
	}
	return Container(root, path)
}

// Validate checks the path invariant: every prefix resolves to a submenu and
// the last index selects an existing item.
func Validate(root *domain.Node, path domain.Path) error {
	_, err := CurrentNode(root, path)
	return err
}

// Durable returns the longest prefix of path that does not enter an ephemeral
// submenu. The last element of the result selects the node the cursor would
// rest on after backing out of every ephemeral level, which is where the
// options node is restored.
func Durable(root *domain.Node, path domain.Path) domain.Path {
	cur := root
	for depth, idx := range path {
		if depth == len(path)-1 {
			break
		}
		if idx < 0 || idx >= len(cur.Children) {
			break
		}
		next := cur.Children[idx]
		if next.IsEphemeralMenu() {
			return path[:depth+1].Clone()
		}
		cur = next
	}
	return path.Clone()
}
