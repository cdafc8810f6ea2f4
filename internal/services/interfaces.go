package services

import (
	"context"
	"io"
	"time"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type OAuthLoginRequest = validator.OAuthLoginRequest
type RefreshRequest = validator.RefreshRequest
type LogoutRequest = validator.LogoutRequest
type CreateDocumentRequest = validator.DocumentCreateRequest
type UpdateDocumentRequest = validator.DocumentUpdateRequest
type StatusChangeRequest = validator.StatusChangeRequest

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime, seconds
}

type AuthResponse struct {
	User   *UserSummary `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

type UserSummary struct {
	ID             uint            `json:"id"`
	Email          string          `json:"email"`
	Username       *string         `json:"username,omitempty"`
	Role           models.UserRole `json:"role"`
	Points         int             `json:"points"`
	DegreeLevelID  *uint           `json:"degree_level_id,omitempty"`
	ProgramID      *uint           `json:"program_id,omitempty"`
	EnrollmentYear *int            `json:"enrollment_year,omitempty"`
}

// FileUpload carries the multipart payload into the document service.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type DocumentResponse struct {
	*models.Document
	FileURL   string `json:"file_url,omitempty"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
	CanReview bool   `json:"can_review"`
}

type DocumentListResponse struct {
	Documents []*DocumentResponse `json:"documents"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Size      int                 `json:"size"`
}

// ===== DASHBOARD DTOs =====

type AdminDashboardResponse struct {
	Users         AdminUserStats                  `json:"users"`
	Documents     map[models.DocumentStatus]int64 `json:"documents"`
	TotalDocs     int64                           `json:"total_documents"`
	RecentUploads []*models.Document              `json:"recent_uploads"`
	RecentReviews []*models.UploadLog             `json:"recent_reviews"`
}

type AdminUserStats struct {
	Total  int64                     `json:"total"`
	Active int64                     `json:"active"`
	ByRole map[models.UserRole]int64 `json:"by_role"`
}

type StudentDashboardResponse struct {
	Points        int                             `json:"points"`
	RecentPoints  []*models.PointsHistory         `json:"recent_points"`
	Documents     map[models.DocumentStatus]int64 `json:"documents"`
	RecentUploads []*models.Document              `json:"recent_uploads"`
	Academic      *AcademicSummary                `json:"academic,omitempty"`
}

type AcademicSummary struct {
	DegreeLevel    *models.DegreeLevel  `json:"degree_level,omitempty"`
	Program        *models.Program      `json:"program,omitempty"`
	EnrollmentYear *int                 `json:"enrollment_year,omitempty"`
	AcademicYear   *models.AcademicYear `json:"academic_year,omitempty"`
	Semesters      []*SemesterCourses   `json:"semesters,omitempty"`
}

type SemesterCourses struct {
	Semester *models.Semester `json:"semester"`
	Courses  []*models.Course `json:"courses"`
}

// DashboardResponse is the role-discriminated envelope for GET /dashboard/.
type DashboardResponse struct {
	Role    models.UserRole           `json:"role"`
	Admin   *AdminDashboardResponse   `json:"admin,omitempty"`
	Student *StudentDashboardResponse `json:"student,omitempty"`
}

// ===== ABOUT US DTOs =====

type AboutUsResponse struct {
	*models.AboutUsContent
	LogoURL     string                `json:"logo_url,omitempty"`
	TeamMembers []*TeamMemberResponse `json:"team_members"`
}

type TeamMemberResponse struct {
	*models.TeamMember
	ImageURL string `json:"image_url,omitempty"`
}

// ===== SERVICE INTERFACES =====

// TokenService mints, verifies, rotates and revokes the JWT pair.
type TokenService interface {
	Issue(ctx context.Context, user *models.User) (*TokenPair, error)
	Verify(ctx context.Context, accessToken string) (*models.User, error)
	Rotate(ctx context.Context, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, refreshToken, accessToken string) error
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	OAuthLogin(ctx context.Context, req *OAuthLoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
}

type DocumentService interface {
	Create(ctx context.Context, req *CreateDocumentRequest, file *FileUpload, uploader *models.User) (*DocumentResponse, error)
	Get(ctx context.Context, id uint, actor *models.User) (*DocumentResponse, error)
	UpdateMetadata(ctx context.Context, id uint, req *UpdateDocumentRequest, actor *models.User) (*DocumentResponse, error)
	ChangeStatus(ctx context.Context, id uint, req *StatusChangeRequest, reviewer *models.User) (*DocumentResponse, error)
	Delete(ctx context.Context, id uint, actor *models.User) error
	List(ctx context.Context, filters repositories.DocumentFilters, actor *models.User) (*DocumentListResponse, error)
	History(ctx context.Context, id uint, actor *models.User) ([]*models.UploadLog, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, actor *models.User) (*DashboardResponse, error)
}

// PointsService applies ledger-backed point awards.
type PointsService interface {
	AwardForApproval(ctx context.Context, event DocumentApprovalEvent) error
	History(ctx context.Context, userID uint, limit int) ([]*models.PointsHistory, error)
}

// DocumentApprovalEvent is the service-level view of a review event.
type DocumentApprovalEvent struct {
	DocumentID uint
	UploaderID uint
	ReviewerID uint
	Status     models.DocumentStatus
	ReviewedAt time.Time
}

type LookupService interface {
	DegreeLevels(ctx context.Context) ([]*models.DegreeLevel, error)
	Programs(ctx context.Context, degreeLevelID *uint) ([]*models.Program, error)
	Courses(ctx context.Context, programID uint) ([]*models.Course, error)
	AcademicYears(ctx context.Context) ([]*models.AcademicYear, error)
	Semesters(ctx context.Context, programID, academicYearID uint) ([]*models.Semester, error)
}

type AboutService interface {
	GetAboutUs(ctx context.Context) (*AboutUsResponse, error)
}

// ExportService renders the document register as a spreadsheet.
type ExportService interface {
	DocumentRegister(ctx context.Context) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Token() TokenService
	Auth() AuthService
	Document() DocumentService
	Dashboard() DashboardService
	Points() PointsService
	Lookup() LookupService
	About() AboutService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
