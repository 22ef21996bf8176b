package reveal

import (
	"errors"
	"fmt"
)

// ScreenState is a phase of the unboxing screen.
type ScreenState string

const (
	// ScreenSealed shows the unopened box, ready for the next pull.
	ScreenSealed ScreenState = "sealed"
	// ScreenEmerging plays the card sliding out of the box.
	ScreenEmerging ScreenState = "emerging"
	// ScreenRevealed shows the face of a regular card.
	ScreenRevealed ScreenState = "revealed"
	// ScreenGolden shows the face of a golden card with its celebration.
	ScreenGolden ScreenState = "golden"
	// ScreenCollection shows the collection with the new card filed in.
	ScreenCollection ScreenState = "collection"
)

// ErrBadTransition is returned when a screen operation is requested from a
// state it cannot leave through that operation.
var ErrBadTransition = errors.New(ErrMsgBadTransition)

// Screen is the unboxing screen state machine. Every phase change goes
// through one of its methods so the flow cannot skip or repeat a phase.
//
// Screen is not safe for concurrent use; the reveal service serializes access.
type Screen struct {
	state ScreenState
}

// NewScreen returns a screen in the sealed state.
func NewScreen() *Screen {
	return &Screen{state: ScreenSealed}
}

// State returns the current phase.
func (s *Screen) State() ScreenState {
	return s.state
}

// Begin starts unboxing: sealed or collection goes to emerging. Starting
// from collection implicitly closes the previous reveal.
func (s *Screen) Begin() error {
	if s.state != ScreenSealed && s.state != ScreenCollection {
		return fmt.Errorf("%w: begin from %s", ErrBadTransition, s.state)
	}
	s.state = ScreenEmerging
	return nil
}

// Reveal flips the emerging card face up, to golden when the card is golden
// and to revealed otherwise.
func (s *Screen) Reveal(golden bool) error {
	if s.state != ScreenEmerging {
		return fmt.Errorf("%w: reveal from %s", ErrBadTransition, s.state)
	}
	if golden {
		s.state = ScreenGolden
	} else {
		s.state = ScreenRevealed
	}
	return nil
}

// File moves a face-up card into the collection view.
func (s *Screen) File() error {
	if s.state != ScreenRevealed && s.state != ScreenGolden {
		return fmt.Errorf("%w: file from %s", ErrBadTransition, s.state)
	}
	s.state = ScreenCollection
	return nil
}

// Reset returns to the sealed box from any state. Used when the user leaves
// the unboxing flow or the active user changes.
func (s *Screen) Reset() {
	s.state = ScreenSealed
}
