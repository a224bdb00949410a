package service

import (
	"context"
	"testing"
	"time"

	"linkpage-backend/internal/models"
)

func TestDraftManagerFlushPersistsPendingDrafts(t *testing.T) {
	svc, pages, _ := newTestPageService()
	page, _ := svc.CreatePage(1, "alice", "Alice")

	manager := NewDraftManager(svc, time.Minute)

	title := "Flushed title"
	desc := "Flushed bio"
	manager.Update(page.ID, models.DraftFields{Title: &title})
	manager.Update(page.ID, models.DraftFields{Description: &desc})

	status := manager.Status(page.ID)
	if !status.Dirty {
		t.Fatalf("expected a dirty status before the flush")
	}

	manager.Flush(context.Background())

	stored := pages.pages[page.ID]
	if stored.Title != "Flushed title" || stored.Description != "Flushed bio" {
		t.Fatalf("expected the merged draft persisted, got %q / %q", stored.Title, stored.Description)
	}

	status = manager.Status(page.ID)
	if status.Dirty || status.Err != nil {
		t.Fatalf("expected a clean status after the flush, got %+v", status)
	}
}

func TestDraftManagerSessionsAreIndependent(t *testing.T) {
	svc, pages, _ := newTestPageService()
	first, _ := svc.CreatePage(1, "alice", "Alice")
	second, _ := svc.CreatePage(2, "bob", "Bob")

	manager := NewDraftManager(svc, time.Minute)

	title := "Only Alice"
	manager.Update(first.ID, models.DraftFields{Title: &title})
	manager.Flush(context.Background())

	if pages.pages[first.ID].Title != "Only Alice" {
		t.Fatalf("expected the first page updated")
	}
	if pages.pages[second.ID].Title != "Bob" {
		t.Fatalf("expected the second page untouched, got %q", pages.pages[second.ID].Title)
	}
}
