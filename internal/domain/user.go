package domain

import (
	"time"
)

// User is the durable record behind an externally verified identity.
// The fid is assigned by the auth collaborator and never changes; everything
// else may be refreshed on later logins.
type User struct {
	Fid           string    `gorm:"primaryKey;column:fid" json:"fid"`
	Username      string    `gorm:"not null;column:username;index" json:"username"`
	PfpURL        string    `gorm:"column:pfp_url" json:"pfp_url,omitempty"`
	WalletAddress string    `gorm:"column:wallet_address" json:"wallet_address,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

// VerifiedIdentity is the trusted payload the auth collaborator hands us for
// the current request. It is never persisted directly; ResolveIdentity turns
// it into a User.
type VerifiedIdentity struct {
	Fid      string `json:"fid"`
	Username string `json:"username,omitempty"`
	PfpURL   string `json:"pfp_url,omitempty"`
}
