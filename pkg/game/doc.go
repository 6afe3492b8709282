// Package game models the Clues by Sam board and the moves that can be
// played on it.
//
// The package never computes deductions itself. The remote page is the only
// source of truth: every operation starts from a fresh snapshot of the DOM,
// read through the Page interface, and interprets what the page shows.
//
// # Board extraction
//
// ReadBoard parses the serialized DOM into a Board of exactly 20 cells in
// DOM order. A card's status comes from the classes on its back face:
// "innocent", "criminal", or neither for an unresolved card.
//
// # Moves
//
// Executor.Apply drives one move through the page:
//
//  1. Reject unknown coordinates and already-resolved cards without clicking
//  2. Click the card, then the innocent or criminal control
//  3. After a short settle delay, classify what happened:
//     - the warning dialog appeared: acknowledge it, OutcomeMistake
//     - cards remain unresolved: OutcomeInProgress
//     - every card is resolved: read the completion dialog, OutcomeComplete
//
// Waits are bounded. A page that never reacts yields ErrTimeout; missing
// controls that the game always renders yield ErrStructureChanged.
package game
