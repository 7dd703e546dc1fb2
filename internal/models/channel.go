package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/TJZine/Retune-sub004/internal/schedule"
)

// Channel represents a virtual broadcast channel entity
type Channel struct {
	ID          uuid.UUID     `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name        string        `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	Number      int           `json:"number" gorm:"type:integer;not null;column:number" validate:"gte=0"`
	Icon        *string       `json:"icon,omitempty" gorm:"type:text;column:icon"`
	Mode        schedule.Mode `json:"mode" gorm:"type:text;not null;default:sequential;column:mode"`
	ShuffleSeed int32         `json:"shuffle_seed" gorm:"type:integer;not null;default:0;column:shuffle_seed"`
	PhaseSeed   int32         `json:"phase_seed" gorm:"type:integer;not null;default:0;column:phase_seed"`
	Loop        bool          `json:"loop" gorm:"type:integer;not null;default:1;column:loop"`
	CreatedAt   time.Time     `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewChannel creates a new Channel with generated UUID and timestamps
func NewChannel(name string, number int, mode schedule.Mode, shuffleSeed, phaseSeed int32, loop bool) *Channel {
	now := time.Now().UTC()
	return &Channel{
		ID:          uuid.New(),
		Name:        name,
		Number:      number,
		Mode:        mode,
		ShuffleSeed: shuffleSeed,
		PhaseSeed:   phaseSeed,
		Loop:        loop,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
