package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CatalogItem represents one schedulable entry in a channel's ordered catalog.
// Display metadata (thumbnail, year, season, episode) is passed through to the
// schedule engine unchanged.
type CatalogItem struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ChannelID  uuid.UUID `json:"channel_id" gorm:"type:text;not null;column:channel_id" validate:"required"`
	Position   int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	Type       string    `json:"type" gorm:"type:text;not null;default:video;column:type"`
	Title      string    `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	ShowName   *string   `json:"show_name,omitempty" gorm:"type:text;column:show_name"`
	Season     *int      `json:"season,omitempty" gorm:"type:integer;column:season"`
	Episode    *int      `json:"episode,omitempty" gorm:"type:integer;column:episode"`
	Year       *int      `json:"year,omitempty" gorm:"type:integer;column:year"`
	Thumbnail  *string   `json:"thumbnail,omitempty" gorm:"type:text;column:thumbnail"`
	DurationMs int64     `json:"duration_ms" gorm:"type:integer;not null;column:duration_ms" validate:"required,gt=0"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewCatalogItem creates a new CatalogItem with generated UUID and timestamp
func NewCatalogItem(channelID uuid.UUID, position int, title string, durationMs int64) *CatalogItem {
	return &CatalogItem{
		ID:         uuid.New(),
		ChannelID:  channelID,
		Position:   position,
		Type:       "video",
		Title:      title,
		DurationMs: durationMs,
		CreatedAt:  time.Now().UTC(),
	}
}

// DurationString returns duration in HH:MM:SS format
func (i *CatalogItem) DurationString() string {
	secs := i.DurationMs / 1000
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
