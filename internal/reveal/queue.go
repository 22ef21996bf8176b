package reveal

import (
	"github.com/google/uuid"

	"github.com/vantail/collectroom/internal/domain"
)

// Queue holds cards waiting to be revealed, in delivery order. It remembers
// every card it has already handed out so that server snapshots arriving out
// of order cannot resurrect a card the user has finished with.
//
// Queue is not safe for concurrent use; the reveal service serializes access.
type Queue struct {
	pending   []domain.Card
	dequeued  map[string]struct{}
	finalized map[string]struct{}
}

// NewQueue returns an empty reveal queue.
func NewQueue() *Queue {
	return &Queue{
		dequeued:  make(map[string]struct{}),
		finalized: make(map[string]struct{}),
	}
}

// validCardID reports whether id is a well-formed card identifier.
// Locally synthesized placeholder cards carry non-UUID ids and must never
// reach the server or the reveal flow.
func validCardID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Enqueue appends a card to the back of the queue. Cards with malformed ids,
// duplicates of a pending card, and cards already dequeued or finalized are
// dropped silently.
func (q *Queue) Enqueue(card domain.Card) bool {
	if !validCardID(card.ID) {
		return false
	}
	if _, ok := q.dequeued[card.ID]; ok {
		return false
	}
	if _, ok := q.finalized[card.ID]; ok {
		return false
	}
	if q.Contains(card.ID) {
		return false
	}
	q.pending = append(q.pending, card)
	return true
}

// Replace swaps the pending set for the server's current unrevealed list,
// preserving the memory of dequeued and finalized cards so a stale snapshot
// cannot re-queue them. Malformed ids are dropped.
func (q *Queue) Replace(cards []domain.Card) {
	q.pending = q.pending[:0]
	for _, card := range cards {
		if !validCardID(card.ID) {
			continue
		}
		if _, ok := q.dequeued[card.ID]; ok {
			continue
		}
		if _, ok := q.finalized[card.ID]; ok {
			continue
		}
		q.pending = append(q.pending, card)
	}
}

// DequeueNext removes and returns the oldest pending card. The returned
// card is remembered as dequeued and will not be accepted again.
func (q *Queue) DequeueNext() (domain.Card, bool) {
	if len(q.pending) == 0 {
		return domain.Card{}, false
	}
	card := q.pending[0]
	q.pending = q.pending[1:]
	q.dequeued[card.ID] = struct{}{}
	return card, true
}

// MarkFinalized records that the card has completed the reveal flow.
func (q *Queue) MarkFinalized(cardID string) {
	q.finalized[cardID] = struct{}{}
}

// IsFinalized reports whether the card has completed the reveal flow.
func (q *Queue) IsFinalized(cardID string) bool {
	_, ok := q.finalized[cardID]
	return ok
}

// Contains reports whether the card is currently pending.
func (q *Queue) Contains(cardID string) bool {
	for _, c := range q.pending {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

// Len returns the number of pending cards.
func (q *Queue) Len() int {
	return len(q.pending)
}

// HasPending reports whether any card is waiting to be revealed.
func (q *Queue) HasPending() bool {
	return len(q.pending) > 0
}

// Clear drops all pending cards. The dequeue and finalize memory stays so a
// refetch racing the clear cannot resurrect a card the user already went
// through.
func (q *Queue) Clear() {
	q.pending = nil
}

// Reset drops everything, history included. Only valid when the queue is
// being handed to a different user.
func (q *Queue) Reset() {
	q.pending = nil
	q.dequeued = make(map[string]struct{})
	q.finalized = make(map[string]struct{})
}
