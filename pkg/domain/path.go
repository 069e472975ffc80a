package domain

import (
	"fmt"
	"strings"
)

// Path is the ordered sequence of sibling indices locating the cursor.
// Element i (i < len-1) is the child chosen at depth i; the last element is
// the highlighted sibling at the deepest visited depth.
type Path []int

// RootPath returns the initial path: first item of the top-level menu.
func RootPath() Path {
	return Path{0}
}

// Last returns the index of the highlighted sibling.
func (p Path) Last() int {
	return p[len(p)-1]
}

// Depth returns the number of levels, 1 at the top-level menu.
func (p Path) Depth() int {
	return len(p)
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether two paths hold the same indices.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the path as "[0 2 1]".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
