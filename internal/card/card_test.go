package card

import (
	"strings"
	"testing"

	"linkpage-backend/internal/models"
)

type countingLocker struct {
	locks   int
	unlocks int
}

func (l *countingLocker) Lock()   { l.locks++ }
func (l *countingLocker) Unlock() { l.unlocks++ }

func TestControllerSingleActiveCard(t *testing.T) {
	ctl := NewController(nil)

	ctl.Open("a")
	if id, ok := ctl.ActiveID(); !ok || id != "a" {
		t.Fatalf("expected a active, got %q/%v", id, ok)
	}

	// Opening another card replaces the active one.
	ctl.Open("b")
	if id, _ := ctl.ActiveID(); id != "b" {
		t.Fatalf("expected b active, got %q", id)
	}

	ctl.Close()
	if _, ok := ctl.ActiveID(); ok {
		t.Fatalf("expected no active card after close")
	}
}

func TestControllerScrollLockBalance(t *testing.T) {
	locker := &countingLocker{}
	ctl := NewController(locker)

	ctl.Open("a")
	ctl.Open("b")
	ctl.Close()
	ctl.Close()

	if locker.locks != 1 {
		t.Fatalf("expected one lock across the open sequence, got %d", locker.locks)
	}
	if locker.unlocks != 1 {
		t.Fatalf("expected one unlock, got %d", locker.unlocks)
	}
}

func TestControllerEscapeAndOutsideClick(t *testing.T) {
	ctl := NewController(nil)

	ctl.Open("a")
	ctl.HandleEscape()
	if _, ok := ctl.ActiveID(); ok {
		t.Fatalf("expected escape to collapse the card")
	}

	ctl.Open("a")
	ctl.HandleOutsideClick(true)
	if id, _ := ctl.ActiveID(); id != "a" {
		t.Fatalf("expected a click inside the expanded card to keep it open")
	}

	ctl.HandleOutsideClick(false)
	if _, ok := ctl.ActiveID(); ok {
		t.Fatalf("expected an outside click to collapse the card")
	}
}

func TestControllerOpenEmptyIDIgnored(t *testing.T) {
	locker := &countingLocker{}
	ctl := NewController(locker)

	ctl.Open("")
	if _, ok := ctl.ActiveID(); ok {
		t.Fatalf("expected an empty id to be ignored")
	}
	if locker.locks != 0 {
		t.Fatalf("expected no scroll lock, got %d", locker.locks)
	}
}

type stubRenderer struct {
	title string
}

func (r stubRenderer) Summary(models.Item) View  { return View{Title: r.title + " summary"} }
func (r stubRenderer) Expanded(models.Item) View { return View{Title: r.title + " expanded"} }

func TestRegistryDispatchesByType(t *testing.T) {
	registry := NewRegistry(DefaultRenderer{})
	registry.Register(models.ItemTypeLink, stubRenderer{title: "link"})

	item := models.Item{Type: models.ItemTypeLink, Data: &models.LinkData{}}
	if got := registry.Summary(item); got.Title != "link summary" {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got := registry.Expanded(item); got.Title != "link expanded" {
		t.Fatalf("unexpected expanded view: %+v", got)
	}
}

func TestRegistryFallsBackForUnknownType(t *testing.T) {
	registry := NewRegistry(stubRenderer{title: "fallback"})

	item := models.Item{Type: models.ItemType("hologram")}
	if got := registry.Summary(item); got.Title != "fallback summary" {
		t.Fatalf("expected the fallback renderer, got %+v", got)
	}
}

func TestDefaultRendererLinkViews(t *testing.T) {
	item := models.Item{
		Type: models.ItemTypeLink,
		Data: &models.LinkData{
			URL:         "https://example.com",
			Title:       "Example",
			Description: "An example site",
			SiteName:    "example.com",
		},
	}

	summary := DefaultRenderer{}.Summary(item)
	if summary.Title != "Example" || summary.Description != "example.com" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.ActionURL != "https://example.com" {
		t.Fatalf("expected the link url as the action, got %q", summary.ActionURL)
	}

	expanded := DefaultRenderer{}.Expanded(item)
	if expanded.Description != "An example site" || expanded.ActionLabel != "Open" {
		t.Fatalf("unexpected expanded view: %+v", expanded)
	}
}

func TestDefaultRendererSanitizesText(t *testing.T) {
	item := models.Item{
		Type: models.ItemTypeText,
		Data: &models.TextData{Title: "<script>x</script>Hi", Text: "body"},
	}

	summary := DefaultRenderer{}.Summary(item)
	if strings.Contains(summary.Title, "<script>") {
		t.Fatalf("expected markup stripped from the title, got %q", summary.Title)
	}
}

func TestDefaultRendererTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", 200)
	item := models.Item{Type: models.ItemTypeText, Data: &models.TextData{Text: long}}

	summary := DefaultRenderer{}.Summary(item)
	if len([]rune(summary.Description)) != 141 {
		t.Fatalf("expected 140 runes plus ellipsis, got %d", len([]rune(summary.Description)))
	}
	if !strings.HasSuffix(summary.Description, "…") {
		t.Fatalf("expected an ellipsis suffix, got %q", summary.Description)
	}
}
