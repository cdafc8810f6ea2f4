package models

import (
	"time"
)

// PointsHistory is the append-only ledger of point grants. Entries are
// never updated or deleted; the user's balance is the running sum.
type PointsHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Points    int       `json:"points" gorm:"not null"`
	Reason    string    `json:"reason" gorm:"not null;size:255"`
	CreatedAt time.Time `json:"created_at"`
}

func (PointsHistory) TableName() string {
	return "points_history"
}
