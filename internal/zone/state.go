package zone

// State tracks where a zone sits in its load lifecycle. Transitions only
// ever move around the cycle Unloaded -> Loading -> Loaded -> Unloading ->
// Unloaded; a failed operation falls back to the stable state it started
// from.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateUnloading
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}
