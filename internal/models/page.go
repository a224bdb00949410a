package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Pages []Page `gorm:"foreignKey:UserID" json:"pages,omitempty"`
}

// Page is a user's public link-in-bio page.
type Page struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Published   bool   `gorm:"default:true" json:"published"`

	// Layout is the serialized grid snapshot. NULL means the user has never
	// configured a layout, which is distinct from an explicitly empty one.
	Layout PageLayout `gorm:"type:jsonb" json:"layout"`

	Items []PageItem `gorm:"foreignKey:PageID" json:"items,omitempty"`
}

// PageItem is a persisted profile item. Its payload is stored as JSONB keyed
// by the Type discriminator.
type PageItem struct {
	ID        string         `gorm:"primarykey;type:uuid" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PageID uint `gorm:"not null;index" json:"page_id"`
	Page   Page `gorm:"foreignKey:PageID" json:"-"`

	Type     ItemType `gorm:"type:varchar(16);not null" json:"type"`
	Data     JSONMap  `gorm:"type:jsonb" json:"data"`
	Style    string   `gorm:"type:varchar(16);default:'compact'" json:"style"`
	IsActive bool     `gorm:"default:true" json:"is_active"`
	SortKey  int      `gorm:"not null;default:0" json:"sort_key"`
}

// PageLayout is the ordered item snapshot persisted on the page row.
type PageLayout []Item

func (l *PageLayout) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan PageLayout")
	}

	return json.Unmarshal(bytes, l)
}

func (l PageLayout) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONMap")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(bytes, &decoded); err != nil {
		return err
	}

	*m = decoded
	return nil
}
