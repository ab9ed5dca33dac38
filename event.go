package bindit

// TargetKind identifies the control shape a raw event originated from.
// The kind decides how an adapter derives the semantic value to write.
type TargetKind int

const (
	// KindText is a single-line text input.
	KindText TargetKind = iota

	// KindNumber is a numeric input. Committed text is coerced through
	// number conversion.
	KindNumber

	// KindTextArea is a multi-line text input.
	KindTextArea

	// KindCheckbox is a toggle. The checked flag is the value.
	KindCheckbox

	// KindRadio is one option in a radio group. A checked event writes
	// the option value; an unchecked event writes nothing.
	KindRadio

	// KindSelect is a select control. The chosen option value is
	// written as-is.
	KindSelect
)

// String returns the string representation of the kind.
func (k TargetKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTextArea:
		return "textarea"
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindSelect:
		return "select"
	default:
		return "unknown"
	}
}

// textLike reports whether the kind participates in composition and
// selection handling.
func (k TargetKind) textLike() bool {
	switch k {
	case KindText, KindNumber, KindTextArea:
		return true
	default:
		return false
	}
}

// Target describes the control state carried by a raw event. Hosts fill
// one from the platform event and hand it to the adapter handlers.
type Target struct {
	// Kind is the control shape.
	Kind TargetKind

	// Value is the raw text for text-like controls, or the bound option
	// value for radio and select kinds.
	Value string

	// Checked is the toggle state for checkbox and radio kinds.
	Checked bool

	// SelectionStart and SelectionEnd are the cursor or selection
	// offsets within Value at the time of the event, in runes. Ignored
	// for kinds that are not text-like.
	SelectionStart int
	SelectionEnd   int
}
