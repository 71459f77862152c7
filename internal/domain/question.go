package domain

import (
	"time"

	"github.com/google/uuid"
)

// Question is an append-only record scoped to a session. Only the session
// creator may set (or overwrite) the answer.
type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index;column:session_id" json:"session_id"`
	AskerFid  string    `gorm:"not null;index;column:asker_fid" json:"asker_fid"`
	Content   string    `gorm:"not null;column:content" json:"content"`
	Answer    string    `gorm:"column:answer" json:"answer,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Question) TableName() string { return "question" }
