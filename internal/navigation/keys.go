package navigation

// Direction is a movement intent.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	numDirections
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// KeyMap maps physical key codes to directions.
type KeyMap map[string]Direction

// DefaultKeyMap binds WASD and the arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"KeyW":       Forward,
		"ArrowUp":    Forward,
		"KeyS":       Backward,
		"ArrowDown":  Backward,
		"KeyA":       Left,
		"ArrowLeft":  Left,
		"KeyD":       Right,
		"ArrowRight": Right,
	}
}

// Keys is the pressed state of each direction.
type Keys [numDirections]bool

func (k Keys) Any() bool {
	for _, p := range k {
		if p {
			return true
		}
	}
	return false
}
