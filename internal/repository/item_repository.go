package repository

import (
	"fmt"

	"linkpage-backend/internal/models"

	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *models.PageItem) error
	Update(item *models.PageItem) error
	UpdateFields(id string, fields map[string]interface{}) error
	Delete(id string) error
	GetByID(id string) (*models.PageItem, error)
	ListByPage(pageID uint) ([]models.PageItem, error)
	NextSortKey(pageID uint) (int, error)
	Reorder(pageID uint, orderedIDs []string) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(item *models.PageItem) error {
	return r.db.Create(item).Error
}

func (r *itemRepository) Update(item *models.PageItem) error {
	return r.db.Save(item).Error
}

func (r *itemRepository) UpdateFields(id string, fields map[string]interface{}) error {
	result := r.db.Model(&models.PageItem{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepository) Delete(id string) error {
	result := r.db.Delete(&models.PageItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepository) GetByID(id string) (*models.PageItem, error) {
	var item models.PageItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) ListByPage(pageID uint) ([]models.PageItem, error) {
	var items []models.PageItem
	err := r.db.Where("page_id = ?", pageID).Order("sort_key ASC, created_at ASC").Find(&items).Error
	return items, err
}

func (r *itemRepository) NextSortKey(pageID uint) (int, error) {
	var maxKey int64
	err := r.db.Model(&models.PageItem{}).
		Where("page_id = ?", pageID).
		Select("COALESCE(MAX(sort_key), 0)").
		Scan(&maxKey).Error
	if err != nil {
		return 0, err
	}
	return int(maxKey) + 1, nil
}

// Reorder rewrites sort keys to match the submitted order. The whole list is
// applied in one transaction so a failed write leaves the stored order
// intact for the client's rollback.
func (r *itemRepository) Reorder(pageID uint, orderedIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PageItem{}).
			Where("page_id = ? AND id IN ?", pageID, orderedIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(orderedIDs) {
			return fmt.Errorf("reorder: %d of %d items do not belong to page %d",
				len(orderedIDs)-int(count), len(orderedIDs), pageID)
		}

		for position, id := range orderedIDs {
			if err := tx.Model(&models.PageItem{}).
				Where("id = ? AND page_id = ?", id, pageID).
				Update("sort_key", position+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
