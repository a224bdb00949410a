package editor

import (
	"context"
	"fmt"
	"sync"

	"linkpage-backend/internal/models"
)

// ReorderController applies drag-and-drop (or keyboard) reorders locally and
// submits the full ordered id list. It keeps a last-known-good order updated
// only on confirmed success; a failed submission re-sorts back to it.
// Intermediate drags may be collapsed: the state converges to either the last
// confirmed order or the most recent optimistic one, not to every step in
// between. Completions are correlated with a sequence token so a stale
// failure cannot undo a newer confirmed order.
type ReorderController struct {
	persistence Persistence
	notifier    Notifier
	pageID      uint

	mu            sync.Mutex
	order         []string
	lastKnownGood []string
	seq           uint64
	confirmedSeq  uint64

	wg sync.WaitGroup
}

func NewReorderController(persistence Persistence, notifier Notifier, pageID uint, orderedIDs []string) *ReorderController {
	c := &ReorderController{
		persistence: persistence,
		notifier:    orNopNotifier(notifier),
		pageID:      pageID,
	}
	c.order = append(c.order, orderedIDs...)
	c.lastKnownGood = append(c.lastKnownGood, orderedIDs...)
	return c
}

// Order returns the current optimistic order.
func (c *ReorderController) Order() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Move reorders the id at from to position to and submits the result.
// Keyboard-driven moves call this exact same path as pointer drags.
func (c *ReorderController) Move(ctx context.Context, from, to int) {
	c.mu.Lock()
	if from < 0 || from >= len(c.order) || to < 0 || to >= len(c.order) || from == to {
		c.mu.Unlock()
		return
	}

	next := make([]string, 0, len(c.order))
	next = append(next, c.order...)
	moved := next[from]
	next = append(next[:from], next[from+1:]...)
	tail := make([]string, len(next[to:]))
	copy(tail, next[to:])
	next = append(next[:to], moved)
	next = append(next, tail...)

	c.order = next
	c.seq++
	seq := c.seq
	submitted := make([]string, len(next))
	copy(submitted, next)
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := c.persistence.ReorderItems(ctx, c.pageID, submitted)
		c.resolve(seq, submitted, err)
	}()
}

// Announce describes an item's position for assistive technology, 1-based
// among the current count.
func (c *ReorderController) Announce(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, other := range c.order {
		if other == id {
			return fmt.Sprintf("Item moved to position %d of %d", i+1, len(c.order))
		}
	}
	return ""
}

// SortItems arranges items to match the controller's current order. Items
// not known to the controller keep their relative position at the end.
func (c *ReorderController) SortItems(items []models.PageItem) []models.PageItem {
	rank := make(map[string]int, len(items))
	for i, id := range c.Order() {
		rank[id] = i
	}

	sorted := make([]models.PageItem, len(items))
	copy(sorted, items)
	// Insertion sort keeps the arrangement stable for unranked items.
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && rankOf(rank, sorted[j-1].ID, len(items)) > rankOf(rank, sorted[j].ID, len(items)) {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
			j--
		}
	}
	return sorted
}

// Wait blocks until all outstanding submissions have resolved.
func (c *ReorderController) Wait() {
	c.wg.Wait()
}

func rankOf(rank map[string]int, id string, fallback int) int {
	if r, ok := rank[id]; ok {
		return r
	}
	return fallback
}

func (c *ReorderController) resolve(seq uint64, submitted []string, err error) {
	c.mu.Lock()

	if err == nil {
		// Accept any confirmation newer than the last one; an out-of-date
		// success must not regress the last-known-good order.
		if seq > c.confirmedSeq {
			c.confirmedSeq = seq
			c.lastKnownGood = submitted
		}
		c.mu.Unlock()
		return
	}

	if seq != c.seq {
		// A newer submission is already in flight; its outcome decides.
		c.mu.Unlock()
		return
	}

	c.order = make([]string, len(c.lastKnownGood))
	copy(c.order, c.lastKnownGood)
	c.mu.Unlock()

	c.notifier.Notify("", err.Error())
}
