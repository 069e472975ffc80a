package domain

import "time"

// Snapshot is the persistable part of a navigation session.
// Path never descends into an ephemeral submenu.
type Snapshot struct {
	Path      Path      `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSnapshot captures a path at the current time.
func NewSnapshot(path Path) Snapshot {
	return Snapshot{Path: path.Clone(), UpdatedAt: time.Now()}
}
