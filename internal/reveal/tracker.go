package reveal

import "github.com/vantail/collectroom/internal/domain"

// Tracker follows the card moving through the reveal flow. "Current" is the
// card being unboxed right now; "latest" is the most recently finished one,
// kept so the collection screen can highlight it.
//
// Tracker is not safe for concurrent use; the reveal service serializes access.
type Tracker struct {
	current *domain.Card
	latest  *domain.Card
}

// NewTracker returns a tracker with no current or latest card.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetCurrent makes card the one being unboxed.
func (t *Tracker) SetCurrent(card domain.Card) {
	c := card
	t.current = &c
}

// Current returns the card being unboxed, or nil when none is in flight.
func (t *Tracker) Current() *domain.Card {
	return t.current
}

// Latest returns the most recently finalized card, or nil before the first
// reveal completes.
func (t *Tracker) Latest() *domain.Card {
	return t.latest
}

// Finalize moves the current card to latest and clears current. It returns
// the finalized card, or false when no card was in flight.
func (t *Tracker) Finalize() (domain.Card, bool) {
	if t.current == nil {
		return domain.Card{}, false
	}
	t.latest = t.current
	t.current = nil
	return *t.latest, true
}

// Clear forgets both the current and latest card. Used when the active user
// changes.
func (t *Tracker) Clear() {
	t.current = nil
	t.latest = nil
}
