/*
Package ports defines the driven ports (interfaces) for the menube engine.

These interfaces decouple the navigation core from external implementations,
allowing the engine to work with various menu sources, command runners,
notification channels and session stores.

# Key Interfaces

  - MenuLoader: Produces the menu tree (e.g., from JSON/YAML/TOML files or memory).
  - CommandRunner: Runs external command lines asynchronously.
  - Publisher / Subscriber: The notification channel the engine announces changes on.
  - PathStore: Persists the durable selection path of a session.
*/
package ports
