package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusLive  = "LIVE"
	SessionStatusEnded = "ENDED"
)

// SessionDuration is how long a session stays live. EndsAt is fixed at
// creation and never renewed.
const SessionDuration = 7 * 24 * time.Hour

// Session is one hosted AMA. Status moves LIVE -> ENDED exactly once, either
// by host action or by the expiry sweeper; after that the row is immutable.
type Session struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorFid  string    `gorm:"not null;index;column:creator_fid" json:"creator_fid"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"not null;column:description" json:"description"`
	Status      string    `gorm:"not null;default:'LIVE';index;column:status" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	EndsAt      time.Time `gorm:"not null;column:ends_at" json:"ends_at"`
}

func (Session) TableName() string { return "session" }

func (s *Session) IsLive() bool { return s.Status == SessionStatusLive }

// SessionFilter narrows session listings. Zero-valued fields are ignored.
type SessionFilter struct {
	Status     string
	CreatorFid string
	Limit      int
}

// QuestionFilter narrows question listings.
type QuestionFilter struct {
	SessionID *uuid.UUID
	AskerFid  string
	Limit     int
}

// TipFilter narrows tip listings.
type TipFilter struct {
	SessionID *uuid.UUID
	SenderFid string
	Limit     int
}
