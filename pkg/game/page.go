package game

import "time"

// CSS selectors for the puzzle's markup.
const (
	SelectorCard        = ".card-grid .card-container"
	SelectorCardGrid    = ".card-grid"
	SelectorStart       = "button.start"
	SelectorInnocent    = ".btn-innocent"
	SelectorCriminal    = ".btn-criminal"
	SelectorMistake     = ".modal.warning"
	SelectorMistakeAck  = ".modal.warning .btn-warn"
	SelectorComplete    = ".modal.complete"
	SelectorShareRow    = ".share-grid-row"
	SelectorShareSquare = ".share-grid-element"
)

// Page is the slice of browser automation the game logic needs. The live
// page is the only source of truth; implementations must not cache.
type Page interface {
	// Content returns the current serialized DOM of the page.
	Content() (string, error)

	// Click clicks the first element matching selector.
	Click(selector string) error

	// ClickNth clicks the index-th element (0-based) matching selector.
	ClickNth(selector string, index int) error

	// Exists reports whether at least one element matches selector.
	Exists(selector string) (bool, error)

	// WaitFor blocks until an element matching selector is visible. It
	// returns an error wrapping ErrTimeout when the wait runs out.
	WaitFor(selector string, timeout time.Duration) error
}

// ButtonSelector returns the action control for a declared status.
func (s Status) ButtonSelector() string {
	switch s {
	case StatusInnocent:
		return SelectorInnocent
	case StatusCriminal:
		return SelectorCriminal
	default:
		return ""
	}
}

func hasMistakeOverlay(page Page) (bool, error) {
	return page.Exists(SelectorMistake)
}

// hasCompletionOverlay waits for the completion dialog, which the page shows
// shortly after the last card resolves.
func hasCompletionOverlay(page Page, timeout time.Duration) error {
	return page.WaitFor(SelectorComplete, timeout)
}
