package editor

import (
	"context"
	"sync"
)

// ToggleController flips item visibility optimistically. Every item gets its
// own submission channel so one item's in-flight toggle never blocks
// another's. The displayed value is the last submitted one while a request is
// in flight and the last confirmed one when idle; a failed toggle reverts and
// surfaces a notification de-duplicated per item.
type ToggleController struct {
	persistence Persistence
	notifier    Notifier

	mu       sync.Mutex
	channels map[string]*toggleChannel

	wg sync.WaitGroup
}

type toggleChannel struct {
	confirmed bool
	submitted *bool
	seq       uint64
	// lastShown suppresses repeating an identical failure message for the
	// same item until it changes or a toggle succeeds.
	lastShown string
}

func NewToggleController(persistence Persistence, notifier Notifier) *ToggleController {
	return &ToggleController{
		persistence: persistence,
		notifier:    orNopNotifier(notifier),
		channels:    make(map[string]*toggleChannel),
	}
}

// Register seeds an item's confirmed value, typically from the loaded page.
func (c *ToggleController) Register(id string, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.channels[id]; ok {
		if ch.submitted == nil {
			ch.confirmed = active
		}
		return
	}
	c.channels[id] = &toggleChannel{confirmed: active}
}

// Value returns the optimistic visibility for the item: the submitted value
// while a request is outstanding, the confirmed one otherwise.
func (c *ToggleController) Value(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.channels[id]
	if !ok {
		return false
	}
	if ch.submitted != nil {
		return *ch.submitted
	}
	return ch.confirmed
}

// Toggle submits a new visibility value for the item. The local value flips
// immediately; a newer toggle supersedes an older in-flight one.
func (c *ToggleController) Toggle(ctx context.Context, id string, active bool) {
	c.mu.Lock()
	ch, ok := c.channels[id]
	if !ok {
		ch = &toggleChannel{confirmed: !active}
		c.channels[id] = ch
	}
	ch.seq++
	seq := ch.seq
	value := active
	ch.submitted = &value
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := c.persistence.SetItemActive(ctx, id, active)
		c.resolve(id, seq, active, err)
	}()
}

// Wait blocks until all outstanding toggles have resolved.
func (c *ToggleController) Wait() {
	c.wg.Wait()
}

func (c *ToggleController) resolve(id string, seq uint64, active bool, err error) {
	c.mu.Lock()
	ch, ok := c.channels[id]
	if !ok || seq != ch.seq {
		// Superseded by a newer toggle for the same item.
		c.mu.Unlock()
		return
	}
	ch.submitted = nil

	if err == nil {
		ch.confirmed = active
		ch.lastShown = ""
		c.mu.Unlock()
		return
	}

	msg := err.Error()
	show := msg != ch.lastShown
	if show {
		ch.lastShown = msg
	}
	c.mu.Unlock()

	if show {
		c.notifier.Notify(id, msg)
	}
}
