package game

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ReadBoard reads a fresh snapshot of every card from the page. The result
// is in DOM order and has been validated against the 4x5 grid.
func ReadBoard(page Page) (Board, error) {
	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	board, err := ParseBoard(content)
	if err != nil {
		return nil, err
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}
	return board, nil
}

// ParseBoard extracts the cards from a serialized page. It does not
// validate the grid shape.
func ParseBoard(rawHTML string) (Board, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var board Board
	for _, grid := range findAll(doc, "card-grid") {
		for _, container := range findAll(grid, "card-container") {
			board = append(board, parseCard(container))
		}
	}
	return board, nil
}

func parseCard(container *html.Node) Cell {
	cell := Cell{
		Coordinate: textOf(findFirst(container, "coord")),
		Name:       textOf(findFirst(container, "name")),
		Profession: textOf(findFirst(container, "profession")),
		Hint:       textOf(findFirst(container, "hint")),
		Status:     StatusUnknown,
	}

	if back := findFirst(container, "card-back"); back != nil {
		switch {
		case hasClass(back, "innocent"):
			cell.Status = StatusInnocent
		case hasClass(back, "criminal"):
			cell.Status = StatusCriminal
		}
	}
	return cell
}

// ReadCompletion reads the completion dialog. The dialog must be present.
func ReadCompletion(page Page) (*CompletionSummary, error) {
	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return ParseCompletion(content)
}

// ParseCompletion extracts the title, time and share grid from the
// completion dialog of a serialized page.
func ParseCompletion(rawHTML string) (*CompletionSummary, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	dialog := findFirstMatch(doc, func(n *html.Node) bool {
		return hasClass(n, "modal") && hasClass(n, "complete")
	})
	if dialog == nil {
		return nil, fmt.Errorf("%w: completion dialog not found", ErrStructureChanged)
	}

	headings := findAllMatch(dialog, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "h3"
	})
	if len(headings) < 2 {
		return nil, fmt.Errorf("%w: completion dialog has %d headings", ErrStructureChanged, len(headings))
	}

	summary := &CompletionSummary{
		Title: textOf(headings[0]),
		Time:  textOf(headings[1]),
	}
	for _, row := range findAll(dialog, "share-grid-row") {
		squares := findAll(row, "share-grid-element")
		reveals := make([]bool, len(squares))
		for i, sq := range squares {
			reveals[i] = hasClass(sq, "correct")
		}
		summary.Rows = append(summary.Rows, reveals)
	}
	return summary, nil
}

// DOM helpers

func hasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// findAll returns descendants of n carrying class, without descending into
// matches.
func findAll(n *html.Node, class string) []*html.Node {
	return findAllMatch(n, func(c *html.Node) bool { return hasClass(c, class) })
}

func findAllMatch(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			found = append(found, c)
			continue
		}
		found = append(found, findAllMatch(c, match)...)
	}
	return found
}

func findFirst(n *html.Node, class string) *html.Node {
	return findFirstMatch(n, func(c *html.Node) bool { return hasClass(c, class) })
}

func findFirstMatch(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirstMatch(c, match); found != nil {
			return found
		}
	}
	return nil
}

// textOf returns the trimmed text content of n, or "" when n is nil.
func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
