package models

import (
	"encoding/json"
	"strings"
)

// ItemType identifies the kind of content an item carries.
type ItemType string

const (
	ItemTypeText    ItemType = "text"
	ItemTypeLink    ItemType = "link"
	ItemTypeSection ItemType = "section"
	ItemTypeMedia   ItemType = "media"
	ItemTypeMap     ItemType = "map"
)

// ItemStatus is the local-only lifecycle tag of an item while it is being
// edited. It is never persisted; the serializer strips it.
type ItemStatus string

const (
	StatusDraft   ItemStatus = "draft"
	StatusLoading ItemStatus = "loading"
	StatusEditing ItemStatus = "editing"
	StatusReady   ItemStatus = "ready"
)

// ItemData is the payload of an item. Each item type has its own concrete
// payload struct; the discriminator lives on the containing Item.
type ItemData interface {
	// DataType returns the item type this payload belongs to.
	DataType() ItemType
	// ShouldPersist reports whether the payload is complete enough to be
	// included in a serialized layout snapshot.
	ShouldPersist() bool
}

type TextData struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

func (d *TextData) DataType() ItemType  { return ItemTypeText }
func (d *TextData) ShouldPersist() bool { return strings.TrimSpace(d.Text) != "" }

type LinkData struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

func (d *LinkData) DataType() ItemType  { return ItemTypeLink }
func (d *LinkData) ShouldPersist() bool { return strings.TrimSpace(d.URL) != "" }

type SectionData struct {
	Headline string `json:"headline"`
}

func (d *SectionData) DataType() ItemType  { return ItemTypeSection }
func (d *SectionData) ShouldPersist() bool { return strings.TrimSpace(d.Headline) != "" }

type MediaData struct {
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type,omitempty"`
	Caption   string `json:"caption,omitempty"`
	URL       string `json:"url,omitempty"`
}

func (d *MediaData) DataType() ItemType  { return ItemTypeMedia }
func (d *MediaData) ShouldPersist() bool { return strings.TrimSpace(d.MediaURL) != "" }

type MapData struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Zoom    int     `json:"zoom,omitempty"`
	Caption string  `json:"caption,omitempty"`
	URL     string  `json:"url,omitempty"`
}

func (d *MapData) DataType() ItemType  { return ItemTypeMap }
func (d *MapData) ShouldPersist() bool { return true }

// itemDataFactories maps each known type to its default payload constructor.
// Adding a new item type means adding a payload struct and an entry here.
var itemDataFactories = map[ItemType]func() ItemData{
	ItemTypeText:    func() ItemData { return &TextData{} },
	ItemTypeLink:    func() ItemData { return &LinkData{} },
	ItemTypeSection: func() ItemData { return &SectionData{} },
	ItemTypeMedia:   func() ItemData { return &MediaData{} },
	ItemTypeMap:     func() ItemData { return &MapData{} },
}

// NewItemData returns a zero-valued payload for the given type. The second
// return value is false for unknown types.
func NewItemData(t ItemType) (ItemData, bool) {
	factory, ok := itemDataFactories[t]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// KnownItemType reports whether t is one of the recognised item types.
func KnownItemType(t ItemType) bool {
	_, ok := itemDataFactories[t]
	return ok
}

// NormalizeItemType lowercases and trims a raw type string.
func NormalizeItemType(raw string) ItemType {
	return ItemType(strings.TrimSpace(strings.ToLower(raw)))
}

// Item is one content unit of a page as held by the editing session. Status
// is local state; Data is the typed payload matching Type.
type Item struct {
	ID     string     `json:"id"`
	Type   ItemType   `json:"type"`
	Status ItemStatus `json:"-"`
	Data   ItemData   `json:"data"`
}

type itemJSON struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON emits the persistable shape of the item: id, type and data.
// Status is intentionally absent.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string   `json:"id"`
		Type ItemType `json:"type"`
		Data ItemData `json:"data"`
	}{ID: i.ID, Type: i.Type, Data: i.Data})
}

// UnmarshalJSON decodes an item, dispatching the payload through the type
// registry. Items of unknown type decode with a nil Data; callers decide
// whether to drop them.
func (i *Item) UnmarshalJSON(raw []byte) error {
	var aux itemJSON
	if err := json.Unmarshal(raw, &aux); err != nil {
		return err
	}

	i.ID = aux.ID
	i.Type = NormalizeItemType(aux.Type)
	i.Status = StatusReady
	i.Data = nil

	data, ok := NewItemData(i.Type)
	if !ok {
		return nil
	}
	if len(aux.Data) > 0 {
		if err := json.Unmarshal(aux.Data, data); err != nil {
			return err
		}
	}
	i.Data = data
	return nil
}
