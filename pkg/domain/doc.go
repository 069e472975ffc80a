/*
Package domain contains the core domain models for the menube navigation engine.

It defines the menu tree, the selection path that locates the cursor inside it,
and the events the engine publishes while the cursor moves. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Node: One entry in the menu tree (Submenu, Command, Notify, Options or OptionItem).
  - Path: The ordered sibling indices describing the current selection.
  - Event: A named notification published by the engine (path changes, command results).
  - Snapshot: The durable part of a Path, suitable for persisting a session.
*/
package domain
