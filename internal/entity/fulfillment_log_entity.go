package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FulfillmentLog is one fulfiller run inside a submission cycle. Written for
// operational inspection only; nothing in the serving path reads it back.
type FulfillmentLog struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId  string    `gorm:"index"`
	Cycle      uint64
	Fulfiller  string
	CardCount  int
	DurationMs int64
	Error      string
	Detail     datatypes.JSONMap
	CreatedAt  time.Time
}
