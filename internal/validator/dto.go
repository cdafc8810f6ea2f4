package validator

// RegisterRequest represents the request structure for account registration
type RegisterRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Username        *string `json:"username" validate:"omitempty,min=3,max=50"`
	Password        string  `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string  `json:"confirm_password" validate:"required"`
	DegreeLevelID   *uint   `json:"degree_level_id"`
	ProgramID       *uint   `json:"program_id"`
	EnrollmentYear  *int    `json:"enrollment_year" validate:"omitempty,enrollment_year"`
}

// LoginRequest represents the request structure for credential login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OAuthLoginRequest carries a Casdoor-issued token for exchange
type OAuthLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// RefreshRequest represents the request structure for token rotation
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents the request structure for session revocation
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	AccessToken  string `json:"access_token"`
}

// DocumentCreateRequest represents the multipart form fields of an upload.
// The payload itself arrives as the "file" part and is handled separately.
type DocumentCreateRequest struct {
	Title          string  `form:"title" json:"title" validate:"required,document_title"`
	DocType        string  `form:"doc_type" json:"doc_type" validate:"required,document_type"`
	CourseID       *uint   `form:"course_id" json:"course_id"`
	AcademicYearID *uint   `form:"academic_year_id" json:"academic_year_id"`
	SemesterNumber *string `form:"semester_number" json:"semester_number"`
}

// DocumentUpdateRequest represents metadata edits on an existing document.
// Status and uploader are not reachable through this structure.
type DocumentUpdateRequest struct {
	Title          *string `json:"title" validate:"omitempty,document_title"`
	DocType        *string `json:"doc_type" validate:"omitempty,document_type"`
	CourseID       *uint   `json:"course_id"`
	AcademicYearID *uint   `json:"academic_year_id"`
	SemesterNumber *string `json:"semester_number"`
}

// StatusChangeRequest represents a reviewer's decision on a document
type StatusChangeRequest struct {
	Status string `json:"status" validate:"required,document_status"`
}
