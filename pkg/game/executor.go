package game

import (
	"context"
	"fmt"
	"time"
)

// Default timings for move execution.
const (
	DefaultSettleDelay    = 100 * time.Millisecond
	DefaultOverlayTimeout = 10 * time.Second
)

// OutcomeKind classifies the result of a move.
type OutcomeKind int

const (
	// OutcomeRejected means the move was refused before touching the page
	OutcomeRejected OutcomeKind = iota
	// OutcomeMistake means the game refused the guess as not deducible
	OutcomeMistake
	// OutcomeInProgress means the card resolved and the game continues
	OutcomeInProgress
	// OutcomeComplete means the card resolved and the puzzle is solved
	OutcomeComplete
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRejected:
		return "rejected"
	case OutcomeMistake:
		return "mistake"
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeComplete:
		return "complete"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// RejectReason explains why a move was rejected.
type RejectReason string

const (
	RejectNotFound     RejectReason = "not_found"
	RejectAlreadyKnown RejectReason = "already_known"
)

// Outcome is the transient result of a single move.
type Outcome struct {
	Kind OutcomeKind

	// Reason is set for OutcomeRejected.
	Reason RejectReason

	// Cell is the targeted cell: its known status for RejectAlreadyKnown,
	// the freshly resolved cell for OutcomeInProgress and OutcomeComplete.
	Cell Cell

	// Board is the snapshot after the move, for in-progress and complete
	// outcomes.
	Board Board

	// Summary is set for OutcomeComplete.
	Summary *CompletionSummary
}

// Executor turns a declared move into the click sequence the game expects
// and classifies what the page did in response.
type Executor struct {
	settle  time.Duration
	timeout time.Duration
}

// NewExecutor creates an executor. Zero durations fall back to the defaults.
func NewExecutor(settle, timeout time.Duration) *Executor {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	if timeout <= 0 {
		timeout = DefaultOverlayTimeout
	}
	return &Executor{settle: settle, timeout: timeout}
}

// Apply marks the cell at coordinate with the declared status.
//
// Rejections are returned as outcomes, not errors. Errors are reserved for
// page failures, ErrStructureChanged and ErrTimeout. ctx only guards the
// start of a move: once the declaration is clicked the page is watched until
// it settles or the overlay timeout runs out, so a cancelled request cannot
// leave a mistake dialog behind.
func (e *Executor) Apply(ctx context.Context, page Page, coordinate string, declared Status) (Outcome, error) {
	button := declared.ButtonSelector()
	if button == "" {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidStatus, declared)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	// A dialog left by an earlier move would otherwise be taken as the
	// verdict on this one.
	stale, err := hasMistakeOverlay(page)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to probe mistake dialog: %w", err)
	}
	if stale {
		if err := acknowledgeMistake(page); err != nil {
			return Outcome{}, err
		}
	}

	before, err := ReadBoard(page)
	if err != nil {
		return Outcome{}, err
	}

	index, target, ok := before.Find(coordinate)
	if !ok {
		return Outcome{Kind: OutcomeRejected, Reason: RejectNotFound}, nil
	}
	if target.Status.Known() {
		return Outcome{Kind: OutcomeRejected, Reason: RejectAlreadyKnown, Cell: target}, nil
	}

	if err := page.ClickNth(SelectorCard, index); err != nil {
		return Outcome{}, fmt.Errorf("failed to select %s: %w", target.Coordinate, err)
	}
	if err := page.Click(button); err != nil {
		return Outcome{}, fmt.Errorf("failed to mark %s as %s: %w", target.Coordinate, declared, err)
	}

	after, mistake, err := e.settleMove(context.WithoutCancel(ctx), page, target)
	if err != nil {
		return Outcome{}, err
	}
	if mistake {
		return Outcome{Kind: OutcomeMistake, Cell: target}, nil
	}

	changed := Diff(before, after)
	if len(changed) != 1 || changed[0].Coordinate != target.Coordinate {
		return Outcome{}, fmt.Errorf("%w: move on %s changed %d cards", ErrStructureChanged, target.Coordinate, len(changed))
	}
	updated := changed[0]

	if !after.AllResolved() {
		return Outcome{Kind: OutcomeInProgress, Cell: updated, Board: after}, nil
	}

	if err := hasCompletionOverlay(page, e.timeout); err != nil {
		return Outcome{}, fmt.Errorf("completion dialog did not appear: %w", err)
	}
	summary, err := ReadCompletion(page)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeComplete, Cell: updated, Board: after, Summary: summary}, nil
}

// settleMove waits for the page to react to a move. It either acknowledges
// the mistake dialog or returns the board once the target has resolved.
func (e *Executor) settleMove(ctx context.Context, page Page, target Cell) (Board, bool, error) {
	deadline := time.Now().Add(e.timeout)
	for {
		if err := sleep(ctx, e.settle); err != nil {
			return nil, false, err
		}

		mistake, err := hasMistakeOverlay(page)
		if err != nil {
			return nil, false, fmt.Errorf("failed to probe mistake dialog: %w", err)
		}
		if mistake {
			return nil, true, acknowledgeMistake(page)
		}

		board, err := ReadBoard(page)
		if err != nil {
			return nil, false, err
		}
		if _, cell, ok := board.Find(target.Coordinate); ok && cell.Status.Known() {
			return board, false, nil
		}

		if time.Now().After(deadline) {
			return nil, false, fmt.Errorf("%w: %s did not resolve within %s", ErrTimeout, target.Coordinate, e.timeout)
		}
	}
}

func acknowledgeMistake(page Page) error {
	ok, err := page.Exists(SelectorMistakeAck)
	if err != nil {
		return fmt.Errorf("failed to probe mistake dialog: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: cannot find continue button in mistake dialog", ErrStructureChanged)
	}
	if err := page.Click(SelectorMistakeAck); err != nil {
		return fmt.Errorf("failed to dismiss mistake dialog: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
