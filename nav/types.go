package nav

import "github.com/robocore-labs/maze-rover/learning"

// Action is a turn-and-advance command in the robot's body frame.
type Action uint8

// Possible actions, in heuristic-weight order.
const (
	Right Action = iota
	Forward
	Left
	Back
)

var actionNames = [4]string{"Right", "Forward", "Left", "Back"}

// String returns the action name.
func (a Action) String() string {
	return actionNames[a&3]
}

// Index maps the action onto its heuristic weight slot.
func (a Action) Index() learning.ActionIndex {
	switch a {
	case Right:
		return learning.IndexRight
	case Forward:
		return learning.IndexFront
	case Left:
		return learning.IndexLeft
	default:
		return learning.IndexBack
	}
}

// SensorRead holds the discretized obstacle readings relative to the
// current heading. A true flag means the side is free of obstacles.
type SensorRead struct {
	LeftFree  bool
	FrontFree bool
	RightFree bool
}

// Decision is the action chosen for a tick together with a quality
// estimate on a 0..10 scale, used for logging only.
type Decision struct {
	Action Action
	Score  uint8
}

// Strategy selects the fallback policy used when no plan applies.
type Strategy uint8

// Available strategies. Only the right-hand rule is implemented; the
// enum leaves room for future variants without changing the public
// shape.
const (
	RightHand Strategy = iota
)
