package session

import "gallery-engine/internal/mathutil"

// Event is anything a platform or client can queue on a session: the
// navigation events plus the session-level commands below.
type Event interface{}

// Activate turns first-person navigation on.
type Activate struct{}

// Deactivate turns navigation off and releases capture.
type Deactivate struct{}

// Select asks to focus an artwork.
type Select struct {
	ArtworkID string
	Target    *mathutil.Vec3
}

// CloseArtwork leaves the focused artwork and returns to navigation.
type CloseArtwork struct{}

// Resume is the "continue" action: it drops any focus target and turns
// navigation back on.
type Resume struct{}

// Exit leaves the exhibition.
type Exit struct{}

// Like toggles the visitor's like on an artwork.
type Like struct {
	ArtworkID string
}
