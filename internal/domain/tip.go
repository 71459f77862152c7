package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tip records a confirmed on-chain transfer to the session host. TxHash is
// globally unique so a retried submission can never double-record.
type Tip struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index;column:session_id" json:"session_id"`
	SenderFid string    `gorm:"not null;index;column:sender_fid" json:"sender_fid"`
	Amount    float64   `gorm:"not null;column:amount" json:"amount"`
	TxHash    string    `gorm:"not null;uniqueIndex;column:tx_hash" json:"tx_hash"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Tip) TableName() string { return "tip" }
