package models

import (
	"time"
)

// RefreshTokenRecord is the issuance record for a refresh credential.
// Only the SHA-256 hash of the token is stored, keyed by the token's JTI.
// Rotation and revocation consult and update this record.
type RefreshTokenRecord struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"` // token JTI
	UserID    uint       `json:"user_id" gorm:"not null;index"`
	TokenHash string     `json:"-" gorm:"not null;size:64"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (RefreshTokenRecord) TableName() string {
	return "refresh_tokens"
}

// Revoked reports whether the record has been explicitly revoked.
func (r *RefreshTokenRecord) Revoked() bool {
	return r.RevokedAt != nil
}

// Expired reports whether the record is past its lifetime at now.
func (r *RefreshTokenRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
