package models

import (
	"time"

	"gorm.io/datatypes"
)

// AboutUsContent holds the public "About Us" page copy. A single row,
// managed by admins and read without authentication.
type AboutUsContent struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"not null;size:255;default:'About Archivus'"`
	AboutText    string         `json:"about_text" gorm:"type:text"`
	MissionTitle string         `json:"mission_title" gorm:"size:255;default:'Our Mission'"`
	MissionText  string         `json:"mission_text" gorm:"type:text"`
	LogoKey      *string        `json:"-" gorm:"size:500"`
	Links        datatypes.JSON `json:"links,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (AboutUsContent) TableName() string {
	return "about_us_content"
}

type TeamMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Role      string    `json:"role" gorm:"not null;size:100"`
	ImageKey  *string   `json:"-" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
