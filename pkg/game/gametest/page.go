// Package gametest provides an in-memory Clues by Sam page for tests.
//
// Page renders the same markup the real site uses and reacts to the same
// selectors, so the extractor, the move executor, the session manager and
// the HTTP router can be exercised without a browser.
package gametest

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/clues/pkg/game"
)

// Suspect is the hidden truth behind one card.
type Suspect struct {
	Name       string
	Profession string
	Hint       string
	Criminal   bool
}

// DefaultSuspects is a fixed 20-card puzzle in row-major order (A1, B1, C1,
// D1, A2, ...). Every third suspect is a criminal.
var DefaultSuspects = func() []Suspect {
	names := []string{
		"Ada", "Bob", "Chloe", "Dmitri", "Eve",
		"Frank", "Gus", "Hana", "Ivy", "Jules",
		"Kai", "Lena", "Mo", "Nina", "Otto",
		"Pia", "Quinn", "Rosa", "Sam", "Theo",
	}
	jobs := []string{"Baker", "Coder", "Judge", "Farmer", "Sleuth"}

	suspects := make([]Suspect, len(names))
	for i, name := range names {
		suspects[i] = Suspect{
			Name:       name,
			Profession: jobs[i%len(jobs)],
			Hint:       fmt.Sprintf("%s has an alibi for Tuesday", name),
			Criminal:   i%3 == 0,
		}
	}
	return suspects
}()

// Page simulates the puzzle page. It is safe for concurrent use.
type Page struct {
	mu sync.Mutex

	suspects []Suspect
	coords   []string
	status   []game.Status

	url      string
	started  bool
	selected int
	warning  bool
	complete bool
	closed   bool

	// BreakMistakeDialog renders the warning dialog without its continue
	// button.
	BreakMistakeDialog bool

	// Stall makes the page ignore innocent/criminal clicks entirely.
	Stall bool

	// Title and Time are shown in the completion dialog.
	Title string
	Time  string

	// Mistakes counts guesses the page refused.
	Mistakes int

	// Clicks records every selector clicked, in order.
	Clicks []string
}

// NewPage returns a page with the default puzzle already started.
func NewPage() *Page {
	p := NewLobbyPage()
	p.started = true
	return p
}

// NewLobbyPage returns a page showing the start button.
func NewLobbyPage() *Page {
	return NewPageWithSuspects(DefaultSuspects)
}

// NewPageWithSuspects returns an unstarted page for the given row-major
// suspects, which must number game.CellCount.
func NewPageWithSuspects(suspects []Suspect) *Page {
	p := &Page{
		suspects: suspects,
		coords:   make([]string, len(suspects)),
		status:   make([]game.Status, len(suspects)),
		selected: -1,
		Title:    "Puzzle #42",
		Time:     "Time: 04:13",
	}
	cols := len(game.Columns)
	for i := range suspects {
		p.coords[i] = string([]byte{game.Columns[i%cols], game.Rows[i/cols]})
		p.status[i] = game.StatusUnknown
	}
	return p
}

// Truth returns the correct status for the coordinate.
func (p *Page) Truth(coordinate string) game.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(coordinate)
	if i < 0 {
		return game.StatusUnknown
	}
	return p.truth(i)
}

// Wrong returns the incorrect status for the coordinate.
func (p *Page) Wrong(coordinate string) game.Status {
	if p.Truth(coordinate) == game.StatusCriminal {
		return game.StatusInnocent
	}
	return game.StatusCriminal
}

// Reveal resolves the cards at the given coordinates without any clicks.
func (p *Page) Reveal(coordinates ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range coordinates {
		if i := p.index(c); i >= 0 {
			p.status[i] = p.truth(i)
		}
	}
}

// RevealAllBut resolves every card except the given coordinates.
func (p *Page) RevealAllBut(coordinates ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	skip := make(map[int]bool)
	for _, c := range coordinates {
		skip[p.index(c)] = true
	}
	for i := range p.status {
		if !skip[i] {
			p.status[i] = p.truth(i)
		}
	}
}

// Started reports whether the start button has been pressed.
func (p *Page) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// ClickCount returns how many times selector was clicked.
func (p *Page) ClickCount(selector string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.Clicks {
		if c == selector {
			n++
		}
	}
	return n
}

// URL returns the page's current location.
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Goto sets the page's location.
func (p *Page) Goto(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("page is closed")
	}
	p.url = url
	return nil
}

// Close marks the page as closed.
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Content renders the page markup.
func (p *Page) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", fmt.Errorf("page is closed")
	}

	var sb strings.Builder
	sb.WriteString("<html><body>")
	if !p.started {
		sb.WriteString(`<button class="start">Start</button>`)
	} else {
		sb.WriteString(`<div class="card-grid">`)
		for i, s := range p.suspects {
			p.writeCard(&sb, i, s)
		}
		sb.WriteString(`</div>`)
	}
	if p.warning {
		sb.WriteString(`<div class="modal warning"><p>Not enough evidence!</p>`)
		if !p.BreakMistakeDialog {
			sb.WriteString(`<button class="btn-warn">Continue</button>`)
		}
		sb.WriteString(`</div>`)
	}
	if p.complete {
		p.writeCompletion(&sb)
	}
	sb.WriteString("</body></html>")
	return sb.String(), nil
}

func (p *Page) writeCard(sb *strings.Builder, i int, s Suspect) {
	back := "card-back"
	if p.status[i].Known() {
		back += " " + string(p.status[i])
	}
	sb.WriteString(`<div class="card-container"><div class="card">`)
	fmt.Fprintf(sb, `<div class="card-front"><span class="coord"> %s </span><h4 class="name">%s</h4><p class="profession">%s</p></div>`,
		p.coords[i], html.EscapeString(s.Name), html.EscapeString(s.Profession))
	fmt.Fprintf(sb, `<div class="%s">`, back)
	switch {
	case p.status[i].Known():
		fmt.Fprintf(sb, `<p class="hint">%s</p>`, html.EscapeString(s.Hint))
	case i%2 == 0:
		// Some unresolved cards carry an empty hint element, others none.
		sb.WriteString(`<p class="hint">  </p>`)
	}
	sb.WriteString(`</div></div></div>`)
}

func (p *Page) writeCompletion(sb *strings.Builder) {
	fmt.Fprintf(sb, `<div class="modal complete"><h3>%s</h3><h3>%s</h3><div class="share-grid">`,
		html.EscapeString(p.Title), html.EscapeString(p.Time))
	cols := len(game.Columns)
	for row := 0; row < len(game.Rows); row++ {
		sb.WriteString(`<div class="share-grid-row">`)
		for col := 0; col < cols; col++ {
			class := "share-grid-element"
			// Each refused guess turns one row incorrect.
			if row >= p.Mistakes {
				class += " correct"
			}
			fmt.Fprintf(sb, `<span class="%s"></span>`, class)
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div></div>`)
}

// Click clicks the element matching selector.
func (p *Page) Click(selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.exists(selector) {
		return fmt.Errorf("no element matches %q", selector)
	}
	p.Clicks = append(p.Clicks, selector)

	switch selector {
	case game.SelectorStart:
		p.started = true
	case game.SelectorInnocent, game.SelectorCriminal:
		p.mark(selector)
	case game.SelectorMistakeAck:
		p.warning = false
	default:
		return fmt.Errorf("unsupported selector %q", selector)
	}
	return nil
}

// ClickNth clicks the index-th card.
func (p *Page) ClickNth(selector string, index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if selector != game.SelectorCard || !p.started {
		return fmt.Errorf("no element matches %q", selector)
	}
	if index < 0 || index >= len(p.suspects) {
		return fmt.Errorf("no element %d matches %q", index, selector)
	}
	p.Clicks = append(p.Clicks, fmt.Sprintf("%s[%d]", selector, index))
	p.selected = index
	return nil
}

// Exists reports whether selector matches an element.
func (p *Page) Exists(selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false, fmt.Errorf("page is closed")
	}
	return p.exists(selector), nil
}

// WaitFor succeeds if selector matches now and times out otherwise.
func (p *Page) WaitFor(selector string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exists(selector) {
		return nil
	}
	return fmt.Errorf("%w: %s not visible after %s", game.ErrTimeout, selector, timeout)
}

func (p *Page) exists(selector string) bool {
	switch selector {
	case game.SelectorStart:
		return !p.started
	case game.SelectorCard, game.SelectorCardGrid:
		return p.started
	case game.SelectorInnocent, game.SelectorCriminal:
		return p.started && p.selected >= 0
	case game.SelectorMistake:
		return p.warning
	case game.SelectorMistakeAck:
		return p.warning && !p.BreakMistakeDialog
	case game.SelectorComplete:
		return p.complete
	default:
		return false
	}
}

// OpenMistakeDialog shows the warning dialog as if a refused guess had not
// been acknowledged.
func (p *Page) OpenMistakeDialog() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.warning = true
}

func (p *Page) mark(selector string) {
	i := p.selected
	p.selected = -1
	if p.Stall || p.status[i].Known() {
		return
	}

	declared := game.StatusInnocent
	if selector == game.SelectorCriminal {
		declared = game.StatusCriminal
	}
	if declared != p.truth(i) {
		p.warning = true
		p.Mistakes++
		return
	}

	p.status[i] = declared
	for _, s := range p.status {
		if !s.Known() {
			return
		}
	}
	p.complete = true
}

func (p *Page) truth(i int) game.Status {
	if p.suspects[i].Criminal {
		return game.StatusCriminal
	}
	return game.StatusInnocent
}

func (p *Page) index(coordinate string) int {
	for i, c := range p.coords {
		if strings.EqualFold(c, strings.TrimSpace(coordinate)) {
			return i
		}
	}
	return -1
}
