package models

import (
	"time"
)

type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusApproved DocumentStatus = "approved"
	StatusRejected DocumentStatus = "rejected"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ReviewOutcome reports whether the status is one a reviewer may set.
func (s DocumentStatus) ReviewOutcome() bool {
	return s == StatusApproved || s == StatusRejected
}

type DocumentType string

const (
	DocInsem      DocumentType = "insem"
	DocEndsem     DocumentType = "endsem"
	DocAssignment DocumentType = "assignment"
	DocNotes      DocumentType = "notes"
	DocOther      DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocInsem, DocEndsem, DocAssignment, DocNotes, DocOther:
		return true
	}
	return false
}

type Document struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	UploaderID uint  `json:"uploader_id" gorm:"not null;index"`
	Uploader   *User `json:"uploader,omitempty" gorm:"foreignKey:UploaderID"`

	Title   string       `json:"title" gorm:"not null;size:200"`
	DocType DocumentType `json:"doc_type" gorm:"not null;size:50"`

	CourseID       *uint         `json:"course_id"`
	Course         *Course       `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	AcademicYearID *uint         `json:"academic_year_id"`
	AcademicYear   *AcademicYear `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
	SemesterNumber *string       `json:"semester_number,omitempty" gorm:"size:2"`

	Status DocumentStatus `json:"status" gorm:"not null;default:pending;size:20;index"`

	// Object storage payload reference.
	FileKey    string  `json:"file_key" gorm:"not null;size:500"`
	FileFormat *string `json:"file_format,omitempty" gorm:"size:100"`
	FileSize   int64   `json:"file_size"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

// UploadLog is the immutable audit record of a status-changing review.
// Rows are only ever inserted, in the same transaction as the status change.
type UploadLog struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	DocumentID uint           `json:"document_id" gorm:"not null;index"`
	Document   *Document      `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
	ReviewerID uint           `json:"reviewer_id" gorm:"not null"`
	Reviewer   *User          `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	Status     DocumentStatus `json:"status" gorm:"not null;size:20"`
	ReviewTime time.Time      `json:"review_time" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (UploadLog) TableName() string {
	return "upload_logs"
}
