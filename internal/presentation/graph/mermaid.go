package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/menube/pkg/domain"
)

// Overlay marks the current selection on the diagram.
type Overlay struct {
	Path domain.Path
}

// GenerateMermaid produces a Mermaid flowchart of the menu tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Submenu: [Rectangle]
// - Command: [[Subroutine]]
// - Emit: >Flag]
// - Options: {{Hexagon}}
// - Option item: ([Stadium])
// With an overlay, nodes on the selection path are styled "visited" and the
// highlighted node "current".
func GenerateMermaid(nodes []*domain.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    root((\"menu\"))\n")
	writeNodes(&sb, "root", nodes, nil)

	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for i := 1; i < len(overlay.Path); i++ {
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(overlay.Path[:i])))
		}
		sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.Path)))
	}
	return sb.String()
}

func writeNodes(sb *strings.Builder, parentID string, nodes []*domain.Node, prefix domain.Path) {
	for i, n := range nodes {
		path := append(prefix.Clone(), i)
		id := nodeID(path)
		opener, closer := shape(n)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(label(n)), closer))

		arrow := "-->"
		if n.Ephemeral {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", parentID, arrow, id))

		if n.IsSubmenu() {
			writeNodes(sb, id, n.Children, path)
		}
	}
}

func shape(n *domain.Node) (string, string) {
	switch n.Kind {
	case domain.KindCommand:
		return "[[", "]]"
	case domain.KindNotify:
		return ">", "]"
	case domain.KindOptions:
		return "{{", "}}"
	case domain.KindOptionItem:
		return "([", "])"
	default:
		return "[", "]"
	}
}

func label(n *domain.Node) string {
	switch n.Kind {
	case domain.KindCommand:
		return n.Label + " <br/> $ " + n.Command
	case domain.KindNotify:
		return n.Label + " <br/> ⚡ " + n.Event
	case domain.KindOptions:
		return n.Label + " <br/> ⋯ " + n.DiscoveryCommand
	}
	return n.Label
}

// nodeID derives a Mermaid-safe identifier from the node's path: [0 2 1] -> n0_2_1.
func nodeID(path domain.Path) string {
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "n" + strings.Join(parts, "_")
}

// escape keeps labels from closing the Mermaid string early.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
