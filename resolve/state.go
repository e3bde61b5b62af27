package resolve

// State is the resolution stage an item is in.
type State int

const (
	// StateUnstarted means no resolution has been requested yet.
	StateUnstarted State = iota
	// StateAwaitingSecondary means a single-lookup registry call is pending.
	StateAwaitingSecondary
	// StateAwaitingPrimary means a bulk registry batch is pending.
	StateAwaitingPrimary
	// StateAwaitingSearch means the free-text fallback is running.
	StateAwaitingSearch
	// StateResolved means an icon was found and cached.
	StateResolved
	// StateExhausted means every tier missed; the item keeps no icon.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateAwaitingSecondary:
		return "awaiting-secondary"
	case StateAwaitingPrimary:
		return "awaiting-primary"
	case StateAwaitingSearch:
		return "awaiting-search"
	case StateResolved:
		return "resolved"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}
