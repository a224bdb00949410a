// Package editor implements the editing-session engine of a page: the
// editable-action gate, the debounced auto-save controller, and the three
// optimistic update controllers (delete, toggle, reorder). Controllers apply
// mutations locally first, submit them to the persistence collaborator, and
// roll back on failure. They are safe for concurrent use.
package editor

import (
	"context"

	"linkpage-backend/internal/models"
)

// Persistence is the remote data API the editor pushes mutations to. The
// editor never implements storage itself; implementations live in the
// service layer.
type Persistence interface {
	CreateItem(ctx context.Context, pageID uint, itemType models.ItemType, data models.JSONMap) (*models.PageItem, error)
	UpdateItem(ctx context.Context, id string, req models.UpdateItemRequest) error
	RemoveItem(ctx context.Context, id string) error
	SetItemActive(ctx context.Context, id string, active bool) error
	ReorderItems(ctx context.Context, pageID uint, orderedIDs []string) error
	SaveDraft(ctx context.Context, pageID uint, fields models.DraftFields) error
}

// Notifier receives user-facing failure messages from the optimistic
// controllers. Implementations typically surface them as toasts.
type Notifier interface {
	Notify(itemID, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(itemID, message string)

func (f NotifierFunc) Notify(itemID, message string) {
	f(itemID, message)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}

func orNopNotifier(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
