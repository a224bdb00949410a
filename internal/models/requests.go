package models

// AddItemRequest represents a request to add a new item to a page.
type AddItemRequest struct {
	Type  string  `json:"type" binding:"required"`
	URL   string  `json:"url"`
	Data  JSONMap `json:"data"`
	Style *string `json:"style,omitempty"`
}

// UpdateItemRequest represents a partial update of an existing item.
type UpdateItemRequest struct {
	Data  *JSONMap `json:"data,omitempty"`
	Style *string  `json:"style,omitempty"`
}

// ToggleItemRequest flips an item's visibility independently of its content.
type ToggleItemRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ReorderItemsRequest carries the full ordered id list after a drag.
type ReorderItemsRequest struct {
	OrderedIDs []string `json:"ordered_ids" binding:"required"`
}

// DraftFields is a partial update of the page's own fields. Nil pointers mean
// "unchanged"; the auto-save controller merges successive partials.
type DraftFields struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Layout      PageLayout `json:"layout,omitempty"`
	LayoutSet   bool       `json:"-"`
}

// Merge folds other into f, later values winning field by field.
func (f *DraftFields) Merge(other DraftFields) {
	if other.Title != nil {
		f.Title = other.Title
	}
	if other.Description != nil {
		f.Description = other.Description
	}
	if other.ImageURL != nil {
		f.ImageURL = other.ImageURL
	}
	if other.LayoutSet {
		f.Layout = other.Layout
		f.LayoutSet = true
	}
}

// Empty reports whether the draft carries no pending changes.
func (f DraftFields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.ImageURL == nil && !f.LayoutSet
}
