package editor

import (
	"context"
	"sync"
	"time"

	"linkpage-backend/internal/models"
	"linkpage-backend/pkg/logger"
)

const defaultAutoSaveDebounce = 2 * time.Second

// AutoSave coalesces partial draft updates from independent editor widgets
// and persists the merged draft after a quiet period. Multiple Update calls
// inside one debounce window produce exactly one save carrying the latest
// merged value. A failed save keeps the draft so the next attempt includes
// the previously failed changes.
type AutoSave struct {
	pageID      uint
	persistence Persistence
	debounce    time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending models.DraftFields
	dirty   bool
	saving  bool
	lastErr error

	wg sync.WaitGroup
}

// AutoSaveStatus is the save state exposed to the UI.
type AutoSaveStatus struct {
	Dirty  bool
	Saving bool
	Err    error
}

func NewAutoSave(pageID uint, persistence Persistence, debounce time.Duration) *AutoSave {
	if debounce <= 0 {
		debounce = defaultAutoSaveDebounce
	}
	return &AutoSave{
		pageID:      pageID,
		persistence: persistence,
		debounce:    debounce,
	}
}

// Update merges a partial draft into the pending one and (re)arms the
// debounce timer.
func (a *AutoSave) Update(partial models.DraftFields) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending.Merge(partial)
	a.dirty = true

	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.onTimer)
		return
	}
	a.timer.Reset(a.debounce)
}

// MarkDirty flags unsaved changes without contributing draft content.
func (a *AutoSave) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = true
}

// MarkError records a save failure raised by a collaborator outside the
// controller's own save path.
func (a *AutoSave) MarkError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = err
}

// Status returns the current dirty/saving/error state.
func (a *AutoSave) Status() AutoSaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AutoSaveStatus{Dirty: a.dirty, Saving: a.saving, Err: a.lastErr}
}

// Flush saves the pending draft immediately, bypassing the debounce. It is
// the teardown path: callers invoke it when the editing session closes.
func (a *AutoSave) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return a.save(ctx)
}

// Wait blocks until no save is in flight. Intended for tests and shutdown.
func (a *AutoSave) Wait() {
	a.wg.Wait()
}

func (a *AutoSave) onTimer() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.save(context.Background()); err != nil {
			logger.Error(err, "Draft auto-save failed", map[string]interface{}{
				"page_id": a.pageID,
			})
		}
	}()
}

func (a *AutoSave) save(ctx context.Context) error {
	a.mu.Lock()
	if a.saving {
		// Another save is in flight; it will reschedule for anything still
		// pending when it completes.
		a.mu.Unlock()
		return nil
	}
	if a.pending.Empty() {
		a.dirty = false
		a.mu.Unlock()
		return nil
	}
	snapshot := a.pending
	a.pending = models.DraftFields{}
	a.saving = true
	a.mu.Unlock()

	err := a.persistence.SaveDraft(ctx, a.pageID, snapshot)

	a.mu.Lock()
	a.saving = false
	if err != nil {
		// Keep the failed changes; edits made while the save was in flight
		// win over the snapshot on a field-by-field basis.
		newer := a.pending
		a.pending = snapshot
		a.pending.Merge(newer)
		a.dirty = true
		a.lastErr = err
	} else {
		a.lastErr = nil
		a.dirty = !a.pending.Empty()
	}
	rearm := !a.pending.Empty() && a.timer != nil
	if rearm {
		a.timer.Reset(a.debounce)
	}
	a.mu.Unlock()

	return err
}
