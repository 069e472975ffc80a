package domain

// MenuItem is one entry of the active menu as shown to remote clients.
type MenuItem struct {
	Label       string `json:"label" jsonschema_description:"Text shown for the item"`
	Kind        Kind   `json:"kind" jsonschema_description:"submenu, command, notify, options or option_item"`
	HasChildren bool   `json:"has_children,omitempty" jsonschema_description:"Activating the item enters a submenu"`
	Ephemeral   bool   `json:"ephemeral,omitempty" jsonschema_description:"The item was produced by an options discovery"`
}

// MenuView is the active menu and the highlighted item.
type MenuView struct {
	Path    []int      `json:"path" jsonschema_description:"Selection path, one index per level"`
	Parent  string     `json:"parent,omitempty" jsonschema_description:"Label of the enclosing submenu, empty at the top level"`
	Items   []MenuItem `json:"items" jsonschema_description:"Items of the active menu in order"`
	Current int        `json:"current" jsonschema_description:"Index of the highlighted item in items"`
	Moved   *bool      `json:"moved,omitempty" jsonschema_description:"Whether the last request changed the selection"`
}

// NewMenuView describes the menu the cursor is in. parent is nil at the top level.
func NewMenuView(path Path, parent *Node, siblings []*Node) MenuView {
	v := MenuView{
		Path:    []int(path.Clone()),
		Items:   make([]MenuItem, len(siblings)),
		Current: path.Last(),
	}
	if parent != nil {
		v.Parent = parent.Label
	}
	for i, n := range siblings {
		v.Items[i] = MenuItem{
			Label:       n.Label,
			Kind:        n.Kind,
			HasChildren: n.HasChildren(),
			Ephemeral:   n.Ephemeral,
		}
	}
	return v
}
