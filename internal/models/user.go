package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleStaff   UserRole = "staff"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

type OAuthProvider string

const (
	ProviderGoogle   OAuthProvider = "google"
	ProviderFacebook OAuthProvider = "facebook"
	ProviderGitHub   OAuthProvider = "github"
	ProviderCasdoor  OAuthProvider = "casdoor"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username *string  `json:"username" gorm:"uniqueIndex;size:150"`
	Role     UserRole `json:"role" gorm:"not null;default:student;size:20"`

	// Credential. Empty for OAuth-only accounts.
	PasswordHash string `json:"-" gorm:"size:255"`

	// OAuth linkage
	OAuthProvider *OAuthProvider `json:"oauth_provider,omitempty" gorm:"column:oauth_provider;size:50"`
	OAuthID       *string        `json:"oauth_id,omitempty" gorm:"column:oauth_id;size:255"`

	// Academic affiliation
	DegreeLevelID  *uint `json:"degree_level_id"`
	ProgramID      *uint `json:"program_id"`
	EnrollmentYear *int  `json:"enrollment_year"`

	DegreeLevel *DegreeLevel `json:"degree_level,omitempty" gorm:"foreignKey:DegreeLevelID"`
	Program     *Program     `json:"program,omitempty" gorm:"foreignKey:ProgramID"`

	Points int `json:"points" gorm:"not null;default:0"`

	// Status. Accounts are deactivated, never hard-deleted.
	IsActive bool `json:"is_active" gorm:"not null;default:true"`
	IsBanned bool `json:"is_banned" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CanAuthenticate reports whether the account may hold a session.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsBanned
}

// IsReviewer reports whether the user may review document submissions.
func (u *User) IsReviewer() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}
