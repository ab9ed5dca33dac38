package bindit

import "github.com/rivo/uniseg"

// SelectionSetter is the minimal control surface an adapter needs to
// restore a recorded cursor position after the host re-renders. Offsets
// are in runes.
type SelectionSetter interface {
	SetSelectionRange(start, end int) error
}

// clampToGrapheme returns the largest grapheme-cluster boundary in text
// that does not exceed off, measured in runes. Offsets landing inside a
// cluster snap back to its start so composed characters are never split.
func clampToGrapheme(text string, off int) int {
	if off <= 0 {
		return 0
	}
	runes := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := len(g.Runes())
		if runes+w > off {
			return runes
		}
		runes += w
	}
	return runes
}
