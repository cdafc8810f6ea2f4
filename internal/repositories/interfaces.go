package repositories

import (
	"context"
	"time"

	"github.com/archivus/archive-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type DocumentFilters struct {
	Status     *models.DocumentStatus `json:"status"`
	UploaderID *uint                  `json:"uploader_id"`
	DocType    *models.DocumentType   `json:"doc_type"`
	CourseID   *uint                  `json:"course_id"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
	SortBy     string                 `json:"sort_by"`    // "created_at", "title"
	SortOrder  string                 `json:"sort_order"` // "asc", "desc"
}

// DocumentScope narrows a listing to what the actor may see. Students get
// approved documents plus their own in any status; reviewers see everything.
// The zero value means no actor scoping.
type DocumentScope struct {
	ActorID    uint
	Restricted bool // true for students
}

// ===== SHARED STATISTICS STRUCTS =====

type UserCounts struct {
	Total  int64                     `json:"total"`
	Active int64                     `json:"active"`
	ByRole map[models.UserRole]int64 `json:"by_role"`
}

// ===== SUB-REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByOAuth(ctx context.Context, provider models.OAuthProvider, oauthID string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	AddPoints(ctx context.Context, userID uint, delta int) error
}

type CatalogRepository interface {
	DegreeLevels(ctx context.Context) ([]*models.DegreeLevel, error)
	Programs(ctx context.Context, degreeLevelID *uint) ([]*models.Program, error)
	GetProgram(ctx context.Context, id uint) (*models.Program, error)
	CoursesByProgram(ctx context.Context, programID uint) ([]*models.Course, error)
	AcademicYears(ctx context.Context) ([]*models.AcademicYear, error)
	AcademicYearCovering(ctx context.Context, year int) (*models.AcademicYear, error)
	Semesters(ctx context.Context, programID, academicYearID uint) ([]*models.Semester, error)

	// Seeding upserts, keyed on the natural unique columns.
	UpsertDegreeLevel(ctx context.Context, level *models.DegreeLevel) error
	UpsertAcademicYear(ctx context.Context, year *models.AcademicYear) error
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uint) (*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	UpdateStatus(ctx context.Context, id uint, status models.DocumentStatus) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters DocumentFilters, scope DocumentScope) ([]*models.Document, int64, error)
	CountByStatus(ctx context.Context, uploaderID *uint) (map[models.DocumentStatus]int64, error)
	Recent(ctx context.Context, uploaderID *uint, limit int) ([]*models.Document, error)
	ListAll(ctx context.Context) ([]*models.Document, error)
}

type UploadLogRepository interface {
	Append(ctx context.Context, log *models.UploadLog) error
	ListByDocument(ctx context.Context, documentID uint) ([]*models.UploadLog, error)
	Recent(ctx context.Context, limit int) ([]*models.UploadLog, error)
}

type PointsRepository interface {
	Append(ctx context.Context, entry *models.PointsHistory) error
	Recent(ctx context.Context, userID uint, limit int) ([]*models.PointsHistory, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, record *models.RefreshTokenRecord) error
	GetByID(ctx context.Context, jti string) (*models.RefreshTokenRecord, error)
	Revoke(ctx context.Context, jti string, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type DashboardRepository interface {
	GetUserCounts(ctx context.Context) (*UserCounts, error)
	GetDocumentCounts(ctx context.Context) (map[models.DocumentStatus]int64, error)
}

type AboutRepository interface {
	GetContent(ctx context.Context) (*models.AboutUsContent, error)
	UpsertContent(ctx context.Context, content *models.AboutUsContent) error
	TeamMembers(ctx context.Context) ([]*models.TeamMember, error)
	UpsertTeamMember(ctx context.Context, member *models.TeamMember) error
}

// ===== AGGREGATE REPOSITORY =====

type Repository interface {
	User() UserRepository
	Catalog() CatalogRepository
	Document() DocumentRepository
	UploadLog() UploadLogRepository
	Points() PointsRepository
	RefreshToken() RefreshTokenRepository
	Dashboard() DashboardRepository
	About() AboutRepository

	// WithTransaction runs fn against a repository bound to one transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}
