package validator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/archivus/archive-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// ValidationError represents a business validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// FieldMap flattens the errors into field -> message, the shape the
// response envelope carries under "errors".
func (ve ValidationErrors) FieldMap() map[string]string {
	if len(ve) == 0 {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates a struct against business rules
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	var errors ValidationErrors

	err := bv.validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: bv.getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

// ValidateRegister validates account registration
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Password != req.ConfirmPassword {
		errors = append(errors, ValidationError{
			Field:   "confirm_password",
			Message: "does not match password",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateDocumentCreate validates document submission business rules
func (bv *BusinessValidator) ValidateDocumentCreate(req *DocumentCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateSemesterNumber("semester_number", req.SemesterNumber)...)

	return errors
}

// ValidateDocumentUpdate validates metadata edits on an existing document
func (bv *BusinessValidator) ValidateDocumentUpdate(req *DocumentUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateSemesterNumber("semester_number", req.SemesterNumber)...)

	return errors
}

// ValidateStatusChange validates a reviewer's status decision
func (bv *BusinessValidator) ValidateStatusChange(req *StatusChangeRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Status != "" && !models.DocumentStatus(req.Status).ReviewOutcome() {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "must be approved or rejected",
			Value:   req.Status,
			Rule:    "review_outcome",
		})
	}

	return errors
}

// validateSemesterNumber checks the optional 1-10 string field shared by
// document create and update payloads.
func (bv *BusinessValidator) validateSemesterNumber(field string, value *string) ValidationErrors {
	if value == nil || *value == "" {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(*value))
	if err != nil || n < 1 || n > 10 {
		return ValidationErrors{{
			Field:   field,
			Message: "must be a number between 1 and 10",
			Value:   *value,
			Rule:    "semester_number",
		}}
	}

	return nil
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Document title (1-200 characters after trimming)
	bv.validate.RegisterValidation("document_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Document type validation
	bv.validate.RegisterValidation("document_type", func(fl validator.FieldLevel) bool {
		return models.DocumentType(fl.Field().String()).Valid()
	})

	// Document status validation
	bv.validate.RegisterValidation("document_status", func(fl validator.FieldLevel) bool {
		return models.DocumentStatus(fl.Field().String()).Valid()
	})

	// User role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	// Semester name validation
	bv.validate.RegisterValidation("semester_name", func(fl validator.FieldLevel) bool {
		name := models.SemesterName(fl.Field().String())
		switch name {
		case models.SemesterFall, models.SemesterSpring, models.SemesterSummer, models.SemesterWinter:
			return true
		}
		return false
	})

	// Enrollment year sanity check (1950 up to next calendar year)
	bv.validate.RegisterValidation("enrollment_year", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= 1950 && year <= time.Now().Year()+1
	})
}

// getErrorMessage returns user-friendly error messages
func (bv *BusinessValidator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "document_title":
		return "must be between 1 and 200 characters"
	case "document_type":
		return "must be a valid document type"
	case "document_status":
		return "must be a valid document status"
	case "user_role":
		return "must be a valid user role"
	case "semester_name":
		return "must be Fall, Spring, Summer, or Winter"
	case "enrollment_year":
		return "must be a plausible enrollment year"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
