package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArchivedSessionStats is the snapshot frozen at the LIVE -> ENDED
// transition. The unique session_id column is the exactly-once guard: a
// second archive attempt hits the constraint and is treated as success.
type ArchivedSessionStats struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:session_id" json:"session_id"`
	TotalTips         float64   `gorm:"not null;column:total_tips" json:"total_tips"`
	TotalQuestions    int64     `gorm:"not null;column:total_questions" json:"total_questions"`
	TotalParticipants int64     `gorm:"not null;column:total_participants" json:"total_participants"`
	ArchivedAt        time.Time `gorm:"not null" json:"archived_at"`
}

func (ArchivedSessionStats) TableName() string { return "archived_session_stats" }

// SessionStats is the wire form of session statistics, either computed live
// over the ledgers or read back from a frozen snapshot.
type SessionStats struct {
	TotalTips         float64 `json:"total_tips"`
	TotalQuestions    int64   `json:"total_questions"`
	TotalParticipants int64   `json:"total_participants"`
}

// LiveSessionStats extends SessionStats with derived values only meaningful
// while the ledgers are still being read directly.
type LiveSessionStats struct {
	SessionStats
	AnsweredQuestions int64   `json:"answered_questions"`
	AverageTipAmount  float64 `json:"average_tip_amount"`
}
