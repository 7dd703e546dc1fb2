package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/TJZine/Retune-sub004/internal/models"
	"gorm.io/gorm"
)

// CatalogItemRepository handles database operations for channel catalog items
type CatalogItemRepository struct {
	db *DB
}

// NewCatalogItemRepository creates a new catalog item repository
func NewCatalogItemRepository(db *DB) *CatalogItemRepository {
	return &CatalogItemRepository{db: db}
}

// Create inserts a new catalog item
func (r *CatalogItemRepository) Create(ctx context.Context, item *models.CatalogItem) error {
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create catalog item: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a catalog item by its UUID
func (r *CatalogItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// GetByChannelID retrieves a channel's catalog ordered by position
func (r *CatalogItemRepository) GetByChannelID(ctx context.Context, channelID uuid.UUID) ([]*models.CatalogItem, error) {
	var items []*models.CatalogItem
	result := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID.String()).
		Order("position ASC").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get catalog items: %w", MapGormError(result.Error))
	}
	return items, nil
}

// ReplaceForChannel atomically replaces a channel's entire catalog with the
// given ordered items. Positions are renumbered sequentially from 0.
func (r *CatalogItemRepository) ReplaceForChannel(ctx context.Context, channelID uuid.UUID, items []*models.CatalogItem) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.Where("channel_id = ?", channelID.String()).Delete(&models.CatalogItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear catalog: %w", result.Error)
		}

		if len(items) == 0 {
			return nil
		}

		for i, item := range items {
			item.Position = i
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to insert catalog items: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}

// Delete removes a catalog item and shifts later positions down by one
func (r *CatalogItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id.String()).Delete(&models.CatalogItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete catalog item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		result = tx.Model(&models.CatalogItem{}).
			Where("channel_id = ? AND position > ?", item.ChannelID.String(), item.Position).
			Update("position", gorm.Expr("position - 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to renumber catalog positions: %w", result.Error)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}
	return nil
}

// CountByChannelID returns the number of catalog items for a channel
func (r *CatalogItemRepository) CountByChannelID(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.CatalogItem{}).
		Where("channel_id = ?", channelID.String()).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count catalog items: %w", MapGormError(result.Error))
	}
	return count, nil
}
