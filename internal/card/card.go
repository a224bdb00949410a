// Package card implements the expandable-card interaction model shared by
// all item renderers: at most one card is expanded at a time, and each item
// type contributes a summary and an expanded view description.
package card

import (
	"sync"

	"linkpage-backend/internal/models"
)

// ScrollLocker suppresses and restores body scrolling while a card is
// expanded. The web frontend supplies the real implementation.
type ScrollLocker interface {
	Lock()
	Unlock()
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// Controller tracks which card, if any, is expanded within one rendered
// list. Opening a card locks scrolling for as long as any card stays open.
type Controller struct {
	locker ScrollLocker

	mu       sync.Mutex
	activeID string
}

func NewController(locker ScrollLocker) *Controller {
	if locker == nil {
		locker = nopLocker{}
	}
	return &Controller{locker: locker}
}

// ActiveID returns the expanded card's item id, if any.
func (c *Controller) ActiveID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID, c.activeID != ""
}

// Open expands the card for id, collapsing any other expanded card.
func (c *Controller) Open(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	wasOpen := c.activeID != ""
	c.activeID = id
	c.mu.Unlock()

	if !wasOpen {
		c.locker.Lock()
	}
}

// Close collapses the expanded card, restoring scroll.
func (c *Controller) Close() {
	c.mu.Lock()
	wasOpen := c.activeID != ""
	c.activeID = ""
	c.mu.Unlock()

	if wasOpen {
		c.locker.Unlock()
	}
}

// HandleEscape collapses the expanded card in response to the Escape key.
func (c *Controller) HandleEscape() {
	c.Close()
}

// HandleOutsideClick collapses the expanded card when a click lands outside
// the expanded region.
func (c *Controller) HandleOutsideClick(insideExpanded bool) {
	if insideExpanded {
		return
	}
	c.Close()
}

// View is a declarative description of what a card shows. Renderers produce
// it; the frontend decides how to draw it.
type View struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ActionLabel string `json:"action_label,omitempty"`
	ActionURL   string `json:"action_url,omitempty"`
	Body        string `json:"body,omitempty"`
}

// Renderer produces the two views of an item type.
type Renderer interface {
	Summary(item models.Item) View
	Expanded(item models.Item) View
}

// Registry maps item types to renderers with a fallback for unknown types.
type Registry struct {
	mu        sync.RWMutex
	renderers map[models.ItemType]Renderer
	fallback  Renderer
}

func NewRegistry(fallback Renderer) *Registry {
	if fallback == nil {
		fallback = DefaultRenderer{}
	}
	return &Registry{
		renderers: make(map[models.ItemType]Renderer),
		fallback:  fallback,
	}
}

// Register associates a renderer with an item type.
func (r *Registry) Register(itemType models.ItemType, renderer Renderer) {
	if renderer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[itemType] = renderer
}

// Renderer returns the renderer for the item type, falling back to the
// default for unknown types rather than failing.
func (r *Registry) Renderer(itemType models.ItemType) Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.renderers[itemType]; ok {
		return renderer
	}
	return r.fallback
}

// Summary renders the collapsed view of an item.
func (r *Registry) Summary(item models.Item) View {
	return r.Renderer(item.Type).Summary(item)
}

// Expanded renders the expanded view of an item.
func (r *Registry) Expanded(item models.Item) View {
	return r.Renderer(item.Type).Expanded(item)
}
