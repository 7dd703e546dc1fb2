// Package catalog provides business logic for channel and catalog management.
// It is the content-catalog collaborator of the schedule engine: it owns the
// ordered item lists and converts them into the engine's input type.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/TJZine/Retune-sub004/internal/db"
	"github.com/TJZine/Retune-sub004/internal/logger"
	"github.com/TJZine/Retune-sub004/internal/models"
	"github.com/TJZine/Retune-sub004/internal/schedule"
)

// Service handles business logic for channel and catalog operations
type Service struct {
	repos *db.Repositories
}

// NewService creates a new catalog service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// CreateChannel creates a new channel with validation
func (s *Service) CreateChannel(ctx context.Context, name string, number int, icon *string, mode schedule.Mode, shuffleSeed, phaseSeed int32, loop bool) (*models.Channel, error) {
	if !mode.Valid() {
		logger.Log.Warn().
			Str("name", name).
			Str("mode", string(mode)).
			Msg("Channel creation failed: invalid playback mode")
		return nil, fmt.Errorf("failed to create channel: %w", ErrInvalidMode)
	}

	if err := s.validateNameUniqueness(ctx, name, uuid.Nil); err != nil {
		logger.Log.Warn().
			Str("name", name).
			Msg("Channel creation failed: duplicate name")
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	channel := models.NewChannel(name, number, mode, shuffleSeed, phaseSeed, loop)
	channel.Icon = icon

	if err := s.repos.Channels.Create(ctx, channel); err != nil {
		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to create channel in database")
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", channel.ID.String()).
		Str("name", channel.Name).
		Str("mode", string(channel.Mode)).
		Msg("Channel created successfully")

	return channel, nil
}

// GetChannel retrieves a channel by its ID
func (s *Service) GetChannel(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	channel, err := s.repos.Channels.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrChannelNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to get channel by ID")
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return channel, nil
}

// ListChannels retrieves all channels ordered by channel number
func (s *Service) ListChannels(ctx context.Context) ([]*models.Channel, error) {
	channels, err := s.repos.Channels.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list channels")
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	logger.Log.Debug().
		Int("count", len(channels)).
		Msg("Listed channels")

	return channels, nil
}

// UpdateChannel updates an existing channel with validation
func (s *Service) UpdateChannel(ctx context.Context, channel *models.Channel) error {
	existing, err := s.GetChannel(ctx, channel.ID)
	if err != nil {
		return err
	}

	if !channel.Mode.Valid() {
		return fmt.Errorf("failed to update channel: %w", ErrInvalidMode)
	}

	if !strings.EqualFold(existing.Name, channel.Name) {
		if err := s.validateNameUniqueness(ctx, channel.Name, channel.ID); err != nil {
			logger.Log.Warn().
				Str("channel_id", channel.ID.String()).
				Str("name", channel.Name).
				Msg("Channel update failed: duplicate name")
			return fmt.Errorf("failed to update channel: %w", err)
		}
	}

	channel.UpdatedAt = time.Now().UTC()

	if err := s.repos.Channels.Update(ctx, channel); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channel.ID.String()).
			Msg("Failed to update channel in database")
		return fmt.Errorf("failed to update channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", channel.ID.String()).
		Str("name", channel.Name).
		Msg("Channel updated successfully")

	return nil
}

// DeleteChannel deletes a channel by its ID
func (s *Service) DeleteChannel(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetChannel(ctx, id); err != nil {
		return err
	}

	// Catalog items cascade via the foreign key
	if err := s.repos.Channels.Delete(ctx, id); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to delete channel from database")
		return fmt.Errorf("failed to delete channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", id.String()).
		Msg("Channel deleted successfully")

	return nil
}

// AddItem appends a catalog item to the end of a channel's catalog
func (s *Service) AddItem(ctx context.Context, channelID uuid.UUID, item *models.CatalogItem) (*models.CatalogItem, error) {
	if item.DurationMs <= 0 {
		logger.Log.Warn().
			Str("channel_id", channelID.String()).
			Int64("duration_ms", item.DurationMs).
			Msg("Add catalog item failed: invalid duration")
		return nil, fmt.Errorf("failed to add catalog item: %w", ErrInvalidDuration)
	}

	if _, err := s.GetChannel(ctx, channelID); err != nil {
		return nil, fmt.Errorf("failed to add catalog item: %w", err)
	}

	count, err := s.repos.CatalogItems.CountByChannelID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to add catalog item: %w", err)
	}

	item.ID = uuid.New()
	item.ChannelID = channelID
	item.Position = int(count)
	item.CreatedAt = time.Now().UTC()
	if item.Type == "" {
		item.Type = "video"
	}

	if err := s.repos.CatalogItems.Create(ctx, item); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channelID.String()).
			Msg("Failed to add catalog item to database")
		return nil, fmt.Errorf("failed to add catalog item: %w", err)
	}

	logger.Log.Info().
		Str("item_id", item.ID.String()).
		Str("channel_id", channelID.String()).
		Int("position", item.Position).
		Str("title", item.Title).
		Msg("Catalog item added successfully")

	return item, nil
}

// ReplaceCatalog atomically replaces a channel's entire ordered catalog
func (s *Service) ReplaceCatalog(ctx context.Context, channelID uuid.UUID, items []*models.CatalogItem) error {
	if _, err := s.GetChannel(ctx, channelID); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	now := time.Now().UTC()
	for i, item := range items {
		if item.DurationMs <= 0 {
			return fmt.Errorf("failed to replace catalog: item at index %d: %w", i, ErrInvalidDuration)
		}
		item.ID = uuid.New()
		item.ChannelID = channelID
		item.CreatedAt = now
		if item.Type == "" {
			item.Type = "video"
		}
	}

	if err := s.repos.CatalogItems.ReplaceForChannel(ctx, channelID, items); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channelID.String()).
			Int("item_count", len(items)).
			Msg("Failed to replace channel catalog")
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", channelID.String()).
		Int("item_count", len(items)).
		Msg("Channel catalog replaced successfully")

	return nil
}

// GetCatalog retrieves a channel's catalog ordered by position
func (s *Service) GetCatalog(ctx context.Context, channelID uuid.UUID) ([]*models.CatalogItem, error) {
	if _, err := s.GetChannel(ctx, channelID); err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	items, err := s.repos.CatalogItems.GetByChannelID(ctx, channelID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channelID.String()).
			Msg("Failed to get catalog items")
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	return items, nil
}

// RemoveItem removes a catalog item and renumbers the remaining positions
func (s *Service) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	if err := s.repos.CatalogItems.Delete(ctx, itemID); err != nil {
		if db.IsNotFound(err) {
			logger.Log.Warn().
				Str("item_id", itemID.String()).
				Msg("Remove catalog item failed: item not found")
			return fmt.Errorf("failed to remove catalog item: %w", ErrItemNotFound)
		}
		logger.Log.Error().
			Err(err).
			Str("item_id", itemID.String()).
			Msg("Failed to remove catalog item")
		return fmt.Errorf("failed to remove catalog item: %w", err)
	}

	logger.Log.Info().
		Str("item_id", itemID.String()).
		Msg("Catalog item removed successfully")

	return nil
}

// ItemsForSchedule converts a channel's stored catalog into the schedule
// engine's input items, preserving order and display metadata
func (s *Service) ItemsForSchedule(ctx context.Context, channelID uuid.UUID) ([]schedule.Item, error) {
	stored, err := s.GetCatalog(ctx, channelID)
	if err != nil {
		return nil, err
	}

	items := make([]schedule.Item, 0, len(stored))
	for _, item := range stored {
		items = append(items, schedule.Item{
			ID:         item.ID.String(),
			Type:       item.Type,
			Title:      item.Title,
			ShowName:   item.ShowName,
			Season:     item.Season,
			Episode:    item.Episode,
			Year:       item.Year,
			Thumbnail:  item.Thumbnail,
			DurationMs: item.DurationMs,
		})
	}
	return items, nil
}

// validateNameUniqueness checks if a channel name is unique (case-insensitive).
// excludeID allows excluding a specific channel ID (for updates).
func (s *Service) validateNameUniqueness(ctx context.Context, name string, excludeID uuid.UUID) error {
	channels, err := s.repos.Channels.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to validate name uniqueness: %w", err)
	}

	nameLower := strings.ToLower(strings.TrimSpace(name))
	for _, channel := range channels {
		if channel.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(channel.Name)) == nameLower {
			return ErrDuplicateChannelName
		}
	}
	return nil
}
