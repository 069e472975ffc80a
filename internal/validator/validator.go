// Package validator checks a loaded menu tree for items the engine can load
// but not act on sensibly.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/menube/pkg/domain"
)

// Problem is one defect found in the tree.
type Problem struct {
	Path    domain.Path
	Trail   string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s: %s", p.Path, p.Trail, p.Message)
}

// Check walks the tree and returns every problem found, in tree order.
func Check(nodes []*domain.Node) []Problem {
	if len(nodes) == 0 {
		return []Problem{{Path: domain.Path{}, Trail: "(root)", Message: "menu has no items"}}
	}
	var problems []Problem
	walk(nodes, nil, nil, &problems)
	return problems
}

// Validate returns an error listing every problem, or nil for a clean tree.
func Validate(nodes []*domain.Node) error {
	problems := Check(nodes)
	if len(problems) == 0 {
		return nil
	}
	lines := make([]string, len(problems))
	for i, p := range problems {
		lines[i] = p.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(problems), strings.Join(lines, "\n- "))
}

func walk(nodes []*domain.Node, prefix domain.Path, trail []string, out *[]Problem) {
	for i, n := range nodes {
		path := append(prefix.Clone(), i)
		label := n.Label
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		names := append(append([]string(nil), trail...), label)
		report := func(format string, args ...any) {
			*out = append(*out, Problem{
				Path:    path,
				Trail:   strings.Join(names, " > "),
				Message: fmt.Sprintf(format, args...),
			})
		}

		if strings.TrimSpace(n.Label) == "" {
			report("missing label")
		}
		if n.Ephemeral || n.Kind == domain.KindOptionItem {
			report("runtime-only %s node in a menu definition", n.Kind)
		}

		switch n.Kind {
		case domain.KindSubmenu:
			walk(n.Children, path, names, out)
		case domain.KindCommand:
			if strings.TrimSpace(n.Command) == "" {
				report("command item without a command")
			}
		case domain.KindNotify:
			if n.Event == "" {
				report("emit item without an event name")
			}
		case domain.KindOptions:
			if strings.TrimSpace(n.DiscoveryCommand) == "" {
				report("options item without a discovery command")
			}
			if strings.TrimSpace(n.ItemScript) == "" {
				report("options item without selectScript")
			}
		case domain.KindOptionItem:
		default:
			report("unknown kind %q", n.Kind)
		}
	}
}
