package models

import (
	"fmt"
	"time"
)

// Reference data for the academic catalog. Seeded or admin-managed,
// looked up by documents, users and the lookup endpoints.

type DegreeLevelCode string

const (
	DegreeUndergraduate DegreeLevelCode = "UG"
	DegreePostgraduate  DegreeLevelCode = "PG"
	DegreeDoctorate     DegreeLevelCode = "PHD"
)

type DegreeLevel struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Code        DegreeLevelCode `json:"code" gorm:"uniqueIndex;not null;size:10"`
	Name        string          `json:"name" gorm:"not null;size:100"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (DegreeLevel) TableName() string {
	return "degree_levels"
}

type AcademicYear struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	YearStart int  `json:"year_start" gorm:"not null;uniqueIndex:idx_academic_years_span"`
	YearEnd   int  `json:"year_end" gorm:"not null;uniqueIndex:idx_academic_years_span"`
}

func (AcademicYear) TableName() string {
	return "academic_years"
}

func (y AcademicYear) String() string {
	return fmt.Sprintf("%d-%d", y.YearStart, y.YearEnd)
}

// Covers reports whether the calendar year falls inside this academic year.
func (y AcademicYear) Covers(year int) bool {
	return y.YearStart <= year && year <= y.YearEnd
}

type Program struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	DegreeLevelID uint         `json:"degree_level_id" gorm:"not null;index"`
	DegreeLevel   *DegreeLevel `json:"degree_level,omitempty" gorm:"foreignKey:DegreeLevelID"`
	Name          string       `json:"name" gorm:"not null;size:100"`
	Code          *string      `json:"code,omitempty" gorm:"size:100"`
	DurationYears *int         `json:"duration_years,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Program) TableName() string {
	return "programs"
}

type Course struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProgramID uint      `json:"program_id" gorm:"not null;uniqueIndex:idx_courses_program_code"`
	Program   *Program  `json:"program,omitempty" gorm:"foreignKey:ProgramID"`
	Code      string    `json:"code" gorm:"not null;size:20;uniqueIndex:idx_courses_program_code"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

type SemesterName string

const (
	SemesterFall   SemesterName = "Fall"
	SemesterSpring SemesterName = "Spring"
	SemesterSummer SemesterName = "Summer"
	SemesterWinter SemesterName = "Winter"
)

type Semester struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	ProgramID      uint          `json:"program_id" gorm:"not null;uniqueIndex:idx_semesters_key"`
	Program        *Program      `json:"program,omitempty" gorm:"foreignKey:ProgramID"`
	AcademicYearID uint          `json:"academic_year_id" gorm:"not null;uniqueIndex:idx_semesters_key"`
	AcademicYear   *AcademicYear `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
	Name           SemesterName  `json:"name" gorm:"not null;size:50;uniqueIndex:idx_semesters_key"`
	Number         int           `json:"number" gorm:"not null;uniqueIndex:idx_semesters_key"`
	StartDate      *time.Time    `json:"start_date,omitempty"`
	EndDate        *time.Time    `json:"end_date,omitempty"`
}

func (Semester) TableName() string {
	return "semesters"
}
