package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestItemMarshalOmitsStatus(t *testing.T) {
	item := Item{
		ID:     "a",
		Type:   ItemTypeText,
		Status: StatusEditing,
		Data:   &TextData{Text: "hello"},
	}

	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(raw), "status") || strings.Contains(string(raw), "editing") {
		t.Fatalf("expected status excluded from the wire shape: %s", raw)
	}
}

func TestItemUnmarshalDispatchesPayload(t *testing.T) {
	raw := `{"id":"a","type":"LINK","data":{"url":"https://example.com","title":"Example"}}`

	var item Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if item.Type != ItemTypeLink {
		t.Fatalf("expected the type normalized, got %s", item.Type)
	}
	data, ok := item.Data.(*LinkData)
	if !ok {
		t.Fatalf("expected a link payload, got %T", item.Data)
	}
	if data.URL != "https://example.com" || data.Title != "Example" {
		t.Fatalf("unexpected payload: %+v", data)
	}
	if item.Status != StatusReady {
		t.Fatalf("expected decoded items to come back ready, got %s", item.Status)
	}
}

func TestItemUnmarshalUnknownTypeTolerated(t *testing.T) {
	raw := `{"id":"a","type":"hologram","data":{"x":1}}`

	var item Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("expected unknown types tolerated, got %v", err)
	}
	if item.Data != nil {
		t.Fatalf("expected a nil payload for an unknown type, got %T", item.Data)
	}
}

func TestShouldPersistPerType(t *testing.T) {
	scenarios := []struct {
		name string
		data ItemData
		want bool
	}{
		{"text with content", &TextData{Text: "hi"}, true},
		{"text blank", &TextData{Text: "  "}, false},
		{"link with url", &LinkData{URL: "https://example.com"}, true},
		{"link without url", &LinkData{Title: "t"}, false},
		{"section with headline", &SectionData{Headline: "Links"}, true},
		{"section blank", &SectionData{}, false},
		{"media with url", &MediaData{MediaURL: "/uploads/x.png"}, true},
		{"media without url", &MediaData{Caption: "c"}, false},
		{"map always", &MapData{}, true},
	}

	for _, s := range scenarios {
		if got := s.data.ShouldPersist(); got != s.want {
			t.Fatalf("%s: ShouldPersist() = %v, want %v", s.name, got, s.want)
		}
	}
}

func TestNormalizeItemType(t *testing.T) {
	if NormalizeItemType("  Text ") != ItemTypeText {
		t.Fatalf("expected whitespace and case normalized")
	}
	if KnownItemType(NormalizeItemType("hologram")) {
		t.Fatalf("expected hologram unknown")
	}
}

func TestDraftFieldsMergeAndEmpty(t *testing.T) {
	title := "Title"
	newTitle := "Newer"
	desc := "Bio"

	var fields DraftFields
	if !fields.Empty() {
		t.Fatalf("expected a zero draft to be empty")
	}

	fields.Merge(DraftFields{Title: &title})
	fields.Merge(DraftFields{Description: &desc})
	fields.Merge(DraftFields{Title: &newTitle})

	if *fields.Title != "Newer" || *fields.Description != "Bio" {
		t.Fatalf("unexpected merge result: %+v", fields)
	}

	// A layout set to nil is still a change: it clears the stored layout.
	fields.Merge(DraftFields{Layout: nil, LayoutSet: true})
	if !fields.LayoutSet {
		t.Fatalf("expected the layout change recorded")
	}
	if fields.Empty() {
		t.Fatalf("expected a draft with changes to be non-empty")
	}
}
