package bindit

// AdapterState represents the composition state of an input adapter.
type AdapterState int32

const (
	// StateIdle indicates no text composition is in progress. Raw events
	// commit directly to the bound path.
	StateIdle AdapterState = iota

	// StateComposing indicates a multi-keystroke composition session is
	// open. Raw events are subject to the platform suppression rule
	// until the session ends.
	StateComposing
)

// String returns the string representation of the state.
func (s AdapterState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	default:
		return "unknown"
	}
}
