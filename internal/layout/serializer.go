package layout

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"linkpage-backend/internal/models"
)

// Serialize filters the grid down to items worth persisting and returns the
// snapshot. It returns nil, not an empty layout, when nothing qualifies: the
// persistence layer treats NULL as "no layout configured yet" and an empty
// array as a deliberately cleared page.
func Serialize(items []models.Item) models.PageLayout {
	var snapshot models.PageLayout
	for _, item := range items {
		if item.Data == nil || !item.Data.ShouldPersist() {
			continue
		}
		// Status is local-only; the snapshot shape never carries it.
		item.Status = ""
		snapshot = append(snapshot, item)
	}
	return snapshot
}

// legacyWrapper covers the historical object shapes a stored layout may have:
// {"items": [...]} and the older {"bricks": [...]}.
type legacyWrapper struct {
	Items  json.RawMessage `json:"items"`
	Bricks json.RawMessage `json:"bricks"`
}

// Parse normalizes a stored layout into an ordered item collection. It
// accepts a bare JSON array, a JSON-encoded string of that array, or a legacy
// wrapper object. Anything unparseable yields an empty collection rather than
// an error; individual items of unknown type are dropped, missing ids are
// generated, and every surviving item comes back ready.
func Parse(raw []byte) []models.Item {
	return parseDepth(raw, 0)
}

// ParseString is Parse for layouts handed around as strings.
func ParseString(raw string) []models.Item {
	return Parse([]byte(raw))
}

const maxParseDepth = 3

func parseDepth(raw []byte, depth int) []models.Item {
	if depth > maxParseDepth {
		return []models.Item{}
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return []models.Item{}
	}

	switch trimmed[0] {
	case '[':
		var items []models.Item
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return []models.Item{}
		}
		return normalizeItems(items)

	case '"':
		// A layout that was JSON-encoded twice on the way to storage.
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return []models.Item{}
		}
		return parseDepth([]byte(inner), depth+1)

	case '{':
		var wrapper legacyWrapper
		if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
			return []models.Item{}
		}
		if len(wrapper.Items) > 0 {
			return parseDepth(wrapper.Items, depth+1)
		}
		if len(wrapper.Bricks) > 0 {
			return parseDepth(wrapper.Bricks, depth+1)
		}
		return []models.Item{}
	}

	return []models.Item{}
}

func normalizeItems(items []models.Item) []models.Item {
	normalized := make([]models.Item, 0, len(items))
	for _, item := range items {
		if !models.KnownItemType(item.Type) || item.Data == nil {
			continue
		}
		if strings.TrimSpace(item.ID) == "" {
			item.ID = uuid.New().String()
		}
		item.Status = models.StatusReady
		normalized = append(normalized, item)
	}
	return normalized
}
