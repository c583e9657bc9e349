package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jagravi04/unimatch-finder/database"
	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
	"github.com/jagravi04/unimatch-finder/utils/validation"
	"gorm.io/datatypes"
)

// Submission error codes, stable across releases; clients switch on them
const (
	CodeMissingFields       = "missing_fields"
	CodeFieldTooLong        = "field_too_long"
	CodeInvalidEmail        = "invalid_email"
	CodeDatabaseError       = "database_error"
	CodeUniversityNotFound  = "university_not_found"
	CodeGPABelowMinimum     = "gpa_below_minimum"
	CodeIELTSBelowMinimum   = "ielts_below_minimum"
	CodeFailedToSubmit      = "failed_to_submit"
	CodeInternalServerError = "internal_server_error"
)

// ApplicationRequest is the payload accepted by the submission gateway.
// Scores are pointers so an absent score is distinguishable from zero.
type ApplicationRequest struct {
	UniversityID       string   `json:"university_id" validate:"required"`
	FirstName          string   `json:"first_name" validate:"required,max=255"`
	LastName           string   `json:"last_name" validate:"required,max=255"`
	Email              string   `json:"email" validate:"required,loose_email,max=512"`
	Phone              string   `json:"phone,omitempty" validate:"max=50"`
	DateOfBirth        string   `json:"date_of_birth,omitempty" validate:"max=20"`
	Nationality        string   `json:"nationality,omitempty" validate:"max=120"`
	GPA                *float64 `json:"gpa" validate:"required"`
	IELTSScore         *float64 `json:"ielts_score" validate:"required"`
	DegreeType         string   `json:"degree_type,omitempty" validate:"max=60"`
	FieldOfStudy       string   `json:"field_of_study" validate:"required,max=255"`
	StatementOfPurpose string   `json:"statement_of_purpose,omitempty"`

	// Status is accepted for wire compatibility and always ignored
	Status string `json:"status,omitempty"`
}

// SubmissionResult is returned for an accepted application
type SubmissionResult struct {
	ApplicationID  string
	UniversityName string
	Message        string
}

// SubmissionError is a rejection with its wire code and HTTP status
type SubmissionError struct {
	Code    string
	Status  int
	Details string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewMissingFieldsError is the rejection for incomplete or unreadable payloads
func NewMissingFieldsError() *SubmissionError {
	return &SubmissionError{
		Code:    CodeMissingFields,
		Status:  http.StatusBadRequest,
		Details: "Please fill in all required fields: name, email, GPA, IELTS score, and field of study.",
	}
}

// notifyTimeout bounds a single confirmation delivery
const notifyTimeout = 30 * time.Second

// Notifier is told about every accepted application
type Notifier interface {
	ApplicationSubmitted(ctx context.Context, application model.Application, university model.University) error
}

// SubmissionService is the authoritative gateway for applications. It trusts
// nothing the client validated and re-checks every rule before persisting.
type SubmissionService struct {
	universities database.UniversityRepository
	applications database.ApplicationRepository
	validator    *validation.Validator
	notifier     Notifier

	notifyTimeout time.Duration
}

// NewSubmissionService creates the gateway; notifier may be nil
func NewSubmissionService(universities database.UniversityRepository, applications database.ApplicationRepository, notifier Notifier) *SubmissionService {
	return &SubmissionService{
		universities: universities,
		applications: applications,
		validator:    validation.NewValidator(),
		notifier:     notifier,

		notifyTimeout: notifyTimeout,
	}
}

// Submit validates req in order (fields, email, university, GPA, IELTS), stores
// the application as pending and returns its id. A non-nil error is always a *SubmissionError.
func (s *SubmissionService) Submit(ctx context.Context, req ApplicationRequest) (result *SubmissionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic while submitting application", "university_id", req.UniversityID, "panic", r)
			result = nil
			err = &SubmissionError{
				Code:    CodeInternalServerError,
				Status:  http.StatusInternalServerError,
				Details: "An unexpected error occurred. Please try again later.",
				Err:     fmt.Errorf("panic: %v", r),
			}
		}
	}()

	req = sanitizeRequest(req)

	if err := s.validator.ValidateStruct(req); err != nil {
		failed := validation.FailedTags(err)
		if _, missing := failed["required"]; missing {
			log.Infow("application rejected", "code", CodeMissingFields, "fields", failed["required"])
			return nil, NewMissingFieldsError()
		}
		if _, badEmail := failed["loose_email"]; badEmail {
			log.Infow("application rejected", "code", CodeInvalidEmail)
			return nil, &SubmissionError{
				Code:    CodeInvalidEmail,
				Status:  http.StatusBadRequest,
				Details: "Please provide a valid email address.",
			}
		}
		if field, limit, tooLong := validation.FirstFailure(err, "max"); tooLong {
			name := jsonFieldName(field)
			log.Infow("application rejected", "code", CodeFieldTooLong, "field", name)
			return nil, &SubmissionError{
				Code:    CodeFieldTooLong,
				Status:  http.StatusBadRequest,
				Details: fmt.Sprintf("%s must be at most %s characters.", name, limit),
				Err:     err,
			}
		}
		log.Infow("application rejected", "code", CodeMissingFields, "errors", validation.FormatValidationErrors(err))
		missingErr := NewMissingFieldsError()
		missingErr.Err = err
		return nil, missingErr
	}

	// NaN and the infinities are not scores
	if !isFinite(*req.GPA) || !isFinite(*req.IELTSScore) {
		log.Infow("application rejected", "code", CodeMissingFields, "reason", "non-finite score")
		return nil, NewMissingFieldsError()
	}

	university, err := s.universities.GetByID(ctx, req.UniversityID)
	if err != nil {
		if errors.Is(err, database.ErrUniversityNotFound) {
			log.Infow("application rejected", "code", CodeUniversityNotFound, "university_id", req.UniversityID)
			return nil, &SubmissionError{
				Code:    CodeUniversityNotFound,
				Status:  http.StatusNotFound,
				Details: "The selected university does not exist in our database.",
				Err:     err,
			}
		}
		log.Errorw("university lookup failed", "university_id", req.UniversityID, "error", err)
		return nil, &SubmissionError{
			Code:    CodeDatabaseError,
			Status:  http.StatusInternalServerError,
			Details: "Failed to fetch university requirements. Please try again.",
			Err:     err,
		}
	}

	if err := eligibility.CheckRequirements(*university, *req.GPA, *req.IELTSScore); err != nil {
		var reqErr *eligibility.RequirementError
		if !errors.As(err, &reqErr) {
			return nil, &SubmissionError{Code: CodeInternalServerError, Status: http.StatusInternalServerError,
				Details: "An unexpected error occurred. Please try again later.", Err: err}
		}
		code := CodeGPABelowMinimum
		if reqErr.Requirement == eligibility.RequirementIELTS {
			code = CodeIELTSBelowMinimum
		}
		log.Infow("application rejected", "code", code, "university_id", university.ID,
			"score", reqErr.Score, "minimum", reqErr.Minimum)
		return nil, &SubmissionError{Code: code, Status: http.StatusBadRequest, Details: reqErr.Details(), Err: err}
	}

	// University removal between the lookup above and this insert is an accepted race;
	// the foreign key turns it into a failed_to_submit.
	application := buildApplication(req, *university)
	if err := s.applications.Create(ctx, &application); err != nil {
		log.Errorw("application insert failed", "university_id", university.ID, "error", err)
		return nil, &SubmissionError{
			Code:    CodeFailedToSubmit,
			Status:  http.StatusInternalServerError,
			Details: "An error occurred while saving your application. Please try again.",
			Err:     err,
		}
	}

	log.Infow("application submitted", "application_id", application.ID, "university_id", university.ID)

	if s.notifier != nil {
		go s.notify(application, *university)
	}

	return &SubmissionResult{
		ApplicationID:  application.ID,
		UniversityName: university.Name,
		Message:        fmt.Sprintf("Application to %s submitted successfully!", university.Name),
	}, nil
}

// notify runs detached from the request; it is bounded by notifyTimeout and never panics out
func (s *SubmissionService) notify(application model.Application, university model.University) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic while sending confirmation", "application_id", application.ID, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.ApplicationSubmitted(ctx, application, university); err != nil {
		log.Warnw("confirmation mail not sent", "application_id", application.ID, "error", err)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// jsonFieldName maps a request struct field to its wire name
func jsonFieldName(field string) string {
	f, ok := reflect.TypeOf(ApplicationRequest{}).FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name
}

func sanitizeRequest(req ApplicationRequest) ApplicationRequest {
	req.UniversityID = validation.SanitizeString(req.UniversityID)
	req.FirstName = validation.SanitizeString(req.FirstName)
	req.LastName = validation.SanitizeString(req.LastName)
	req.Email = validation.SanitizeString(req.Email)
	req.Phone = validation.SanitizeString(req.Phone)
	req.DateOfBirth = validation.SanitizeString(req.DateOfBirth)
	req.Nationality = validation.SanitizeString(req.Nationality)
	req.DegreeType = validation.SanitizeString(req.DegreeType)
	req.FieldOfStudy = validation.SanitizeString(req.FieldOfStudy)
	req.StatementOfPurpose = validation.SanitizeText(req.StatementOfPurpose)
	return req
}

// optional maps empty strings to NULL
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func buildApplication(req ApplicationRequest, university model.University) model.Application {
	return model.Application{
		UniversityID:       university.ID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              optional(req.Phone),
		DateOfBirth:        optional(req.DateOfBirth),
		Nationality:        optional(req.Nationality),
		GPA:                *req.GPA,
		IELTSScore:         *req.IELTSScore,
		DegreeType:         optional(req.DegreeType),
		FieldOfStudy:       req.FieldOfStudy,
		StatementOfPurpose: optional(req.StatementOfPurpose),
		// Always pending on create, whatever the client sent
		Status: model.ApplicationStatusPending,
		RequirementSnapshot: datatypes.NewJSONType(model.RequirementSnapshot{
			UniversityName: university.Name,
			MinGPA:         university.MinGPA,
			MinIELTS:       university.MinIELTS,
		}),
	}
}
