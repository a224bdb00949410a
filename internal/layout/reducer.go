// Package layout holds the pure page-layout core: the reducer driving the
// editable item grid and the serializer for its persisted snapshot. Nothing
// in this package performs I/O.
package layout

import (
	"strings"

	"linkpage-backend/internal/models"
)

// Action is a state transition request for the item grid.
type Action interface {
	isAction()
}

// AddTextPlaceholder appends an empty text item awaiting user input.
type AddTextPlaceholder struct {
	ID string
}

// AddLinkPlaceholder appends a link item awaiting crawled metadata.
type AddLinkPlaceholder struct {
	ID  string
	URL string
}

// UpdateText replaces a text item's content and recomputes its status.
type UpdateText struct {
	ID      string
	Text    string
	Editing bool
}

// UpdateLink merges crawled or edited link fields into an existing item.
// Empty patch fields leave the current value untouched.
type UpdateLink struct {
	ID    string
	Patch models.LinkData
}

// Remove drops an item from the grid.
type Remove struct {
	ID string
}

func (AddTextPlaceholder) isAction() {}
func (AddLinkPlaceholder) isAction() {}
func (UpdateText) isAction()         {}
func (UpdateLink) isAction()         {}
func (Remove) isAction()             {}

// TextStatus derives a text item's lifecycle status from its content and
// whether the user is currently editing it.
func TextStatus(text string, editing bool) models.ItemStatus {
	if strings.TrimSpace(text) == "" {
		return models.StatusDraft
	}
	if editing {
		return models.StatusEditing
	}
	return models.StatusReady
}

// Reduce applies an action to the ordered item collection and returns the
// next collection. Actions referencing unknown ids are silent no-ops, and a
// no-op returns the input slice unchanged so memoized consumers can compare
// by identity. When an item does change, untouched items keep their payload
// pointers.
func Reduce(items []models.Item, action Action) []models.Item {
	switch a := action.(type) {
	case AddTextPlaceholder:
		return append(cloneItems(items), models.Item{
			ID:     a.ID,
			Type:   models.ItemTypeText,
			Status: models.StatusDraft,
			Data:   &models.TextData{},
		})

	case AddLinkPlaceholder:
		// A fresh link waits on the crawler, so it starts out loading
		// rather than draft.
		return append(cloneItems(items), models.Item{
			ID:     a.ID,
			Type:   models.ItemTypeLink,
			Status: models.StatusLoading,
			Data:   &models.LinkData{URL: a.URL},
		})

	case UpdateText:
		idx := indexOf(items, a.ID)
		if idx < 0 {
			return items
		}
		current, ok := items[idx].Data.(*models.TextData)
		if !ok {
			return items
		}
		status := TextStatus(a.Text, a.Editing)
		if current.Text == a.Text && items[idx].Status == status {
			return items
		}
		next := cloneItems(items)
		next[idx].Status = status
		next[idx].Data = &models.TextData{Title: current.Title, Text: a.Text}
		return next

	case UpdateLink:
		idx := indexOf(items, a.ID)
		if idx < 0 {
			return items
		}
		current, ok := items[idx].Data.(*models.LinkData)
		if !ok {
			return items
		}
		merged := mergeLink(*current, a.Patch)
		if merged == *current && items[idx].Status == models.StatusReady {
			return items
		}
		next := cloneItems(items)
		next[idx].Status = models.StatusReady
		next[idx].Data = &merged
		return next

	case Remove:
		idx := indexOf(items, a.ID)
		if idx < 0 {
			return items
		}
		next := make([]models.Item, 0, len(items)-1)
		next = append(next, items[:idx]...)
		next = append(next, items[idx+1:]...)
		return next
	}

	return items
}

// Move returns a copy of items with the element at from reinserted at to.
// Out-of-range indexes leave the input untouched.
func Move(items []models.Item, from, to int) []models.Item {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return items
	}
	next := cloneItems(items)
	moved := next[from]
	next = append(next[:from], next[from+1:]...)
	rest := append(next[:to:to], moved)
	return append(rest, next[to:]...)
}

func indexOf(items []models.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []models.Item) []models.Item {
	next := make([]models.Item, len(items))
	copy(next, items)
	return next
}

func mergeLink(current, patch models.LinkData) models.LinkData {
	merged := current
	if patch.URL != "" {
		merged.URL = patch.URL
	}
	if patch.Title != "" {
		merged.Title = patch.Title
	}
	if patch.Description != "" {
		merged.Description = patch.Description
	}
	if patch.SiteName != "" {
		merged.SiteName = patch.SiteName
	}
	if patch.IconURL != "" {
		merged.IconURL = patch.IconURL
	}
	if patch.ImageURL != "" {
		merged.ImageURL = patch.ImageURL
	}
	return merged
}
