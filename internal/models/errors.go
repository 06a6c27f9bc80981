package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation error codes. The submission validator emits exactly one of
// these per rejected submission, first failing check wins.
const (
	CodeAgeTooLow       = "AGE_TOO_LOW"
	CodeMissingField    = "MISSING_FIELD"
	CodeIntroInvalid    = "INTRO_INVALID"
	CodeBannedContent   = "BANNED_CONTENT"
	CodeConsentRequired = "CONSENT_REQUIRED"
)

const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// Predefined error constructors
func NewAgeTooLowError(minAge int) *AppError {
	return &AppError{
		Code:    CodeAgeTooLow,
		Message: fmt.Sprintf("You must be at least %d to submit", minAge),
	}
}

func NewMissingFieldError(field string) *AppError {
	return &AppError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewIntroInvalidError(maxLen int) *AppError {
	return &AppError{
		Code:    CodeIntroInvalid,
		Message: fmt.Sprintf("Intro must be at most %d characters", maxLen),
	}
}

func NewBannedContentError() *AppError {
	return &AppError{
		Code:    CodeBannedContent,
		Message: "Submission contains disallowed content",
	}
}

func NewConsentRequiredError() *AppError {
	return &AppError{
		Code:    CodeConsentRequired,
		Message: "Consent is required to submit",
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewStoreUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeStoreUnavailable,
		Message: "Storage backend unavailable",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsValidationCode reports whether code belongs to the submission
// validation family.
func IsValidationCode(code string) bool {
	switch code {
	case CodeAgeTooLow, CodeMissingField, CodeIntroInvalid, CodeBannedContent, CodeConsentRequired:
		return true
	}
	return false
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
