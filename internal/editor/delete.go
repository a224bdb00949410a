package editor

import (
	"context"
	"sync"

	"linkpage-backend/internal/models"
)

// DeleteController removes items from the visible collection before the
// server confirms, and restores them if the removal fails. While any removal
// is in flight, Sync calls from background refetches are suspended so they
// cannot resurrect an optimistically removed item.
type DeleteController struct {
	persistence Persistence
	notifier    Notifier

	mu         sync.Mutex
	items      []models.PageItem
	inFlight   map[string]*pendingDelete
	seq        uint64
	deletingID string

	wg sync.WaitGroup
}

// pendingDelete remembers where the removed item sat so a failure can put it
// back without replaying the whole pre-removal list. Restoring by position
// keeps a late failure from rolling back a different, already completed
// deletion.
type pendingDelete struct {
	seq   uint64
	item  models.PageItem
	index int
}

func NewDeleteController(persistence Persistence, notifier Notifier, initial []models.PageItem) *DeleteController {
	c := &DeleteController{
		persistence: persistence,
		notifier:    orNopNotifier(notifier),
		inFlight:    make(map[string]*pendingDelete),
	}
	c.items = append(c.items, initial...)
	return c
}

// Items returns the currently visible collection.
func (c *DeleteController) Items() []models.PageItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.PageItem, len(c.items))
	copy(out, c.items)
	return out
}

// Sync replaces the collection from an external source (a refetch). It is a
// no-op while any delete is in flight.
func (c *DeleteController) Sync(initial []models.PageItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inFlight) > 0 {
		return
	}
	c.items = make([]models.PageItem, len(initial))
	copy(c.items, initial)
}

// IsDeleting reports whether a removal request is outstanding, and for which
// item the most recent one was issued.
func (c *DeleteController) IsDeleting() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inFlight) > 0, c.deletingID
}

// Delete removes the item locally and submits the removal. Unknown ids and
// ids already being deleted are ignored.
func (c *DeleteController) Delete(ctx context.Context, item models.PageItem) {
	c.mu.Lock()
	if _, busy := c.inFlight[item.ID]; busy {
		c.mu.Unlock()
		return
	}
	index := -1
	for i := range c.items {
		if c.items[i].ID == item.ID {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		return
	}

	c.seq++
	pending := &pendingDelete{seq: c.seq, item: c.items[index], index: index}
	c.inFlight[item.ID] = pending
	c.deletingID = item.ID
	c.items = append(c.items[:index], c.items[index+1:]...)
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := c.persistence.RemoveItem(ctx, item.ID)
		c.resolve(item.ID, pending.seq, err)
	}()
}

// Wait blocks until all outstanding removals have resolved.
func (c *DeleteController) Wait() {
	c.wg.Wait()
}

func (c *DeleteController) resolve(id string, seq uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending, ok := c.inFlight[id]
	if !ok || pending.seq != seq {
		// A stale completion; a newer request for this id owns the outcome.
		return
	}
	delete(c.inFlight, id)
	if c.deletingID == id && len(c.inFlight) == 0 {
		c.deletingID = ""
	}

	if err == nil {
		return
	}

	index := pending.index
	if index > len(c.items) {
		index = len(c.items)
	}
	restored := make([]models.PageItem, 0, len(c.items)+1)
	restored = append(restored, c.items[:index]...)
	restored = append(restored, pending.item)
	restored = append(restored, c.items[index:]...)
	c.items = restored

	c.notifier.Notify(id, err.Error())
}
