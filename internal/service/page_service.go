package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkpage-backend/internal/card"
	"linkpage-backend/internal/layout"
	"linkpage-backend/internal/models"
	"linkpage-backend/internal/repository"
	"linkpage-backend/pkg/cache"
	"linkpage-backend/pkg/logger"
	"linkpage-backend/pkg/validator"
)

const pageCacheTTL = 5 * time.Minute

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrUnknownItemType = errors.New("unknown item type")
	ErrNotPageOwner    = errors.New("viewer does not own this page")
)

// PageService owns page and item persistence. It implements
// editor.Persistence so the editing engine can push mutations through it,
// and serves the cached public view.
type PageService struct {
	pages repository.PageRepository
	items repository.ItemRepository
	cache *cache.Cache
	cards *card.Registry
}

func NewPageService(pages repository.PageRepository, items repository.ItemRepository, c *cache.Cache, cards *card.Registry) *PageService {
	if cards == nil {
		cards = card.NewRegistry(card.DefaultRenderer{})
	}
	return &PageService{pages: pages, items: items, cache: c, cards: cards}
}

// CreatePage provisions a user's page. Each user owns exactly one.
func (s *PageService) CreatePage(userID uint, slug, title string) (*models.Page, error) {
	taken, err := s.pages.ExistsBySlug(slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("slug %q is already taken", slug)
	}

	page := &models.Page{
		UserID:    userID,
		Slug:      slug,
		Title:     title,
		Published: true,
	}
	if err := s.pages.Create(page); err != nil {
		return nil, err
	}
	return page, nil
}

// GetOwnedPage loads the page and verifies ownership. Mutating handlers call
// this before gating any edit action.
func (s *PageService) GetOwnedPage(userID uint, pageID uint) (*models.Page, error) {
	page, err := s.pages.GetByID(pageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	if page.UserID != userID {
		return nil, ErrNotPageOwner
	}
	return page, nil
}

// GetPageForUser returns the user's own page.
func (s *PageService) GetPageForUser(userID uint) (*models.Page, error) {
	page, err := s.pages.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return page, nil
}

// ListItems returns the page's items in sort order.
func (s *PageService) ListItems(pageID uint) ([]models.PageItem, error) {
	return s.items.ListByPage(pageID)
}

// CreateItem persists a new item at the end of the page. Part of the
// editor.Persistence contract.
func (s *PageService) CreateItem(ctx context.Context, pageID uint, itemType models.ItemType, data models.JSONMap) (*models.PageItem, error) {
	if !models.KnownItemType(itemType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItemType, itemType)
	}
	if err := validateItemData(itemType, data); err != nil {
		return nil, err
	}

	sortKey, err := s.items.NextSortKey(pageID)
	if err != nil {
		return nil, err
	}

	item := &models.PageItem{
		ID:       uuid.New().String(),
		PageID:   pageID,
		Type:     itemType,
		Data:     data,
		Style:    "compact",
		IsActive: true,
		SortKey:  sortKey,
	}
	if err := s.items.Create(item); err != nil {
		return nil, err
	}

	s.invalidatePage(pageID)
	return item, nil
}

// UpdateItem applies a partial content/style update. Part of the
// editor.Persistence contract.
func (s *PageService) UpdateItem(ctx context.Context, id string, req models.UpdateItemRequest) error {
	item, err := s.items.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	fields := map[string]interface{}{}
	if req.Data != nil {
		if err := validateItemData(item.Type, *req.Data); err != nil {
			return err
		}
		fields["data"] = *req.Data
	}
	if req.Style != nil {
		fields["style"] = *req.Style
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.items.UpdateFields(id, fields); err != nil {
		return err
	}
	s.invalidatePage(item.PageID)
	return nil
}

// RemoveItem deletes an item. Part of the editor.Persistence contract.
func (s *PageService) RemoveItem(ctx context.Context, id string) error {
	item, err := s.items.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if err := s.items.Delete(id); err != nil {
		return err
	}
	s.invalidatePage(item.PageID)
	return nil
}

// SetItemActive flips visibility without touching content. Part of the
// editor.Persistence contract.
func (s *PageService) SetItemActive(ctx context.Context, id string, active bool) error {
	item, err := s.items.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if err := s.items.UpdateFields(id, map[string]interface{}{"is_active": active}); err != nil {
		return err
	}
	s.invalidatePage(item.PageID)
	return nil
}

// ReorderItems rewrites the page's sort keys. Part of the
// editor.Persistence contract.
func (s *PageService) ReorderItems(ctx context.Context, pageID uint, orderedIDs []string) error {
	if err := s.items.Reorder(pageID, orderedIDs); err != nil {
		return err
	}
	s.invalidatePage(pageID)
	return nil
}

// SaveDraft persists merged draft fields from the auto-save controller.
// Part of the editor.Persistence contract.
func (s *PageService) SaveDraft(ctx context.Context, pageID uint, draft models.DraftFields) error {
	fields := map[string]interface{}{}
	if draft.Title != nil {
		fields["title"] = *draft.Title
	}
	if draft.Description != nil {
		fields["description"] = *draft.Description
	}
	if draft.ImageURL != nil {
		fields["image_url"] = *draft.ImageURL
	}
	if draft.LayoutSet {
		fields["layout"] = draft.Layout
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.pages.UpdateFields(pageID, fields); err != nil {
		return err
	}
	s.invalidatePage(pageID)
	return nil
}

// PageView is the rendered public page.
type PageView struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Items       []PageViewItem `json:"items"`
}

// PageViewItem pairs an item with its card views.
type PageViewItem struct {
	ID       string          `json:"id"`
	Type     models.ItemType `json:"type"`
	Style    string          `json:"style"`
	Summary  card.View       `json:"summary"`
	Expanded card.View       `json:"expanded"`
}

// GetPublicPage renders a published page for visitors, cache-first. Only
// active items appear, in sort order.
func (s *PageService) GetPublicPage(slug string) (*PageView, error) {
	cacheKey := "page:view:" + slug

	var cached PageView
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("Page cache read failed", map[string]interface{}{
			"slug": slug,
		})
	}

	page, err := s.pages.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	items, err := s.items.ListByPage(page.ID)
	if err != nil {
		return nil, err
	}

	view := &PageView{
		Slug:        page.Slug,
		Title:       page.Title,
		Description: page.Description,
		ImageURL:    page.ImageURL,
		Items:       make([]PageViewItem, 0, len(items)),
	}
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		gridItem, ok := toGridItem(item)
		if !ok {
			continue
		}
		view.Items = append(view.Items, PageViewItem{
			ID:       item.ID,
			Type:     item.Type,
			Style:    item.Style,
			Summary:  s.cards.Summary(gridItem),
			Expanded: s.cards.Expanded(gridItem),
		})
	}

	if err := s.cache.Set(cacheKey, view, pageCacheTTL); err != nil {
		logger.Warn("Page cache write failed", map[string]interface{}{
			"slug": slug,
		})
	}
	return view, nil
}

func (s *PageService) invalidatePage(pageID uint) {
	page, err := s.pages.GetByID(pageID)
	if err != nil {
		return
	}
	if err := s.cache.Delete("page:view:" + page.Slug); err != nil {
		logger.Warn("Page cache invalidation failed", map[string]interface{}{
			"page_id": pageID,
		})
	}
}

// toGridItem converts a persisted item into the typed in-memory shape the
// card renderers consume. It reuses the serializer's normalization path so
// payload defaults and unknown types are handled one way.
func toGridItem(item models.PageItem) (models.Item, bool) {
	parsed := layout.Parse(mustJSON([]models.PageItem{item}))
	if len(parsed) != 1 {
		return models.Item{}, false
	}
	return parsed[0], true
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func validateItemData(itemType models.ItemType, data models.JSONMap) error {
	switch itemType {
	case models.ItemTypeLink:
		url, _ := data["url"].(string)
		if !validator.ValidateURL(url) {
			return errors.New("link items require a valid url")
		}
	case models.ItemTypeSection:
		headline, _ := data["headline"].(string)
		if ok, msg := validator.ValidateHeadline(headline); !ok {
			return errors.New(msg)
		}
	case models.ItemTypeMedia:
		mediaURL, _ := data["media_url"].(string)
		if validator.TrimSpaces(mediaURL) == "" {
			return errors.New("media items require a media_url")
		}
	}
	return nil
}
