package service

import (
	"context"
	"fmt"

	"linkpage-backend/internal/crawler"
	"linkpage-backend/internal/models"
	"linkpage-backend/pkg/logger"
)

// LinkService runs the link-save path: crawl the URL for metadata, then
// persist the enriched item. A crawl failure aborts the save; the caller
// surfaces it as retryable.
type LinkService struct {
	crawler crawler.Crawler
	pages   *PageService
}

func NewLinkService(c crawler.Crawler, pages *PageService) *LinkService {
	return &LinkService{crawler: c, pages: pages}
}

// AddLink crawls rawURL and creates a link item on the page.
func (s *LinkService) AddLink(ctx context.Context, pageID uint, rawURL string) (*models.PageItem, error) {
	meta, err := s.crawler.Crawl(ctx, rawURL)
	if err != nil {
		logger.Warn("Link crawl failed", map[string]interface{}{
			"page_id": pageID,
			"url":     rawURL,
		})
		return nil, fmt.Errorf("fetch link metadata: %w", err)
	}

	data := models.JSONMap{
		"url":         meta.URL,
		"title":       meta.Title,
		"description": meta.Description,
		"site_name":   meta.SiteName,
		"image_url":   meta.Image,
		"icon_url":    meta.Favicon,
	}
	return s.pages.CreateItem(ctx, pageID, models.ItemTypeLink, data)
}

// RefreshLink re-crawls an existing link item and merges the fresh metadata.
func (s *LinkService) RefreshLink(ctx context.Context, itemID string, rawURL string) error {
	meta, err := s.crawler.Crawl(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("fetch link metadata: %w", err)
	}

	data := models.JSONMap{
		"url":         meta.URL,
		"title":       meta.Title,
		"description": meta.Description,
		"site_name":   meta.SiteName,
		"image_url":   meta.Image,
		"icon_url":    meta.Favicon,
	}
	return s.pages.UpdateItem(ctx, itemID, models.UpdateItemRequest{Data: &data})
}
