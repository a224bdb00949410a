package editor

import (
	"context"
	"sync"

	"linkpage-backend/internal/models"
)

type toggleCall struct {
	id     string
	active bool
}

// fakePersistence records every mutation and answers with configured errors.
// A non-nil gate channel blocks the matching call until the channel is
// closed, which lets tests hold a request in flight.
type fakePersistence struct {
	mu sync.Mutex

	removeErr  error
	toggleErr  error
	reorderErr error
	saveErr    error

	removeGate  chan struct{}
	reorderGate chan struct{}

	removed  []string
	toggles  []toggleCall
	reorders [][]string
	saves    []models.DraftFields
}

func (f *fakePersistence) CreateItem(ctx context.Context, pageID uint, itemType models.ItemType, data models.JSONMap) (*models.PageItem, error) {
	return &models.PageItem{PageID: pageID, Type: itemType, Data: data}, nil
}

func (f *fakePersistence) UpdateItem(ctx context.Context, id string, req models.UpdateItemRequest) error {
	return nil
}

func (f *fakePersistence) RemoveItem(ctx context.Context, id string) error {
	if f.removeGate != nil {
		<-f.removeGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.removeErr
}

func (f *fakePersistence) SetItemActive(ctx context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles = append(f.toggles, toggleCall{id: id, active: active})
	return f.toggleErr
}

func (f *fakePersistence) ReorderItems(ctx context.Context, pageID uint, orderedIDs []string) error {
	if f.reorderGate != nil {
		<-f.reorderGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(orderedIDs))
	copy(ids, orderedIDs)
	f.reorders = append(f.reorders, ids)
	return f.reorderErr
}

func (f *fakePersistence) SaveDraft(ctx context.Context, pageID uint, fields models.DraftFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, fields)
	return f.saveErr
}

func (f *fakePersistence) savedDrafts() []models.DraftFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.DraftFields, len(f.saves))
	copy(out, f.saves)
	return out
}

func (f *fakePersistence) setSaveErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

// recordingNotifier collects controller failure messages.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(itemID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func strPtr(s string) *string {
	return &s
}
