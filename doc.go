/*
Package menube is a hierarchical menu navigation engine for keypad and
keyboard driven front-ends.

A menu is a tree of items loaded from a JSON, YAML or TOML document. The
engine keeps a selection path into that tree and exposes five operations:
MoveUp, MoveDown, BackOut, Descend and Activate. Activating an item runs a
shell command, publishes a named event, enters a submenu, or builds a
submenu on the fly from the output lines of a discovery command.

Everything the engine does is reported as an event. Front-ends (the
console, the HTTP API, the MCP server) subscribe to events and redraw.

# Usage

	m, err := menube.New("menu.yaml")
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	m.Subscribe(domain.EventCommandCompleted, func(ctx context.Context, ev domain.Event) {
		fmt.Print(ev.Result.Stdout)
	})

	m.MoveDown()
	if _, err := m.Activate(ctx); err != nil {
		log.Fatal(err)
	}

# Menu format

	# menu.yaml
	- label: Tools
	  menu:
	    - label: Date
	      command: date
	      emit: show_date
	- label: Branches
	  options: git branch --format='%(refname:short)'
	  selectScript: git checkout
	  selectEmit: checked_out
	- label: Quit
	  emit: exit

Items with "menuFile" load their children from another document, resolved
relative to the including file.
*/
package menube
