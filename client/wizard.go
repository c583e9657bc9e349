package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
)

// Step is a state of the application wizard
type Step int

const (
	StepPersonalInfo Step = iota
	StepAcademicInfo
	// StepSubmitted holds while the application is with the gateway
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "personal_info"
	case StepAcademicInfo:
		return "academic_info"
	case StepSubmitted:
		return "submitted"
	}
	return "unknown"
}

var (
	// ErrWrongStep is returned for a transition the current step does not allow
	ErrWrongStep = errors.New("action not allowed in the current step")
	// ErrBusy is returned when a submission is already in flight
	ErrBusy = errors.New("a submission is already in progress")
)

// Phase guard messages
const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgInvalidEmail   = "Please enter a valid email address"
)

// ValidationError blocks a step transition; Fields names the offending inputs
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersonalInfo is collected in the first step
type PersonalInfo struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// AcademicInfo is collected in the second step
type AcademicInfo struct {
	GPA                *float64 `json:"gpa"`
	IELTSScore         *float64 `json:"ielts_score"`
	DegreeType         string   `json:"degree_type,omitempty"`
	FieldOfStudy       string   `json:"field_of_study"`
	StatementOfPurpose string   `json:"statement_of_purpose,omitempty"`
}

// Application is the payload sent to the submission gateway
type Application struct {
	UniversityID string `json:"university_id"`
	PersonalInfo
	AcademicInfo
}

// Submitter delivers a finished application
type Submitter interface {
	SubmitApplication(ctx context.Context, app Application) (*SubmitResult, error)
}

// Wizard is the two step application form for one university. Each exit is
// guarded; a failed guard leaves the wizard where it was.
type Wizard struct {
	mu         sync.Mutex
	university model.University
	submitter  Submitter
	step       Step
	personal   PersonalInfo
	academic   AcademicInfo
}

// NewWizard opens the form for university; its minimums are captured now
func NewWizard(university model.University, submitter Submitter) *Wizard {
	return &Wizard{university: university, submitter: submitter, step: StepPersonalInfo}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Busy reports whether a submission is in flight
func (w *Wizard) Busy() bool {
	return w.Step() == StepSubmitted
}

// Draft returns the application as entered so far
func (w *Wizard) Draft() Application {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft()
}

func (w *Wizard) draft() Application {
	return Application{UniversityID: w.university.ID, PersonalInfo: w.personal, AcademicInfo: w.academic}
}

// SetPersonalInfo replaces the first step's fields
func (w *Wizard) SetPersonalInfo(p PersonalInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepPersonalInfo {
		return ErrWrongStep
	}
	w.personal = p
	return nil
}

// SetAcademicInfo replaces the second step's fields
func (w *Wizard) SetAcademicInfo(a AcademicInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepAcademicInfo {
		return ErrWrongStep
	}
	w.academic = a
	return nil
}

// Next leaves the personal step when names and a well-formed email are present
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepPersonalInfo {
		return ErrWrongStep
	}
	if err := checkPersonal(w.personal); err != nil {
		return err
	}
	w.step = StepAcademicInfo
	return nil
}

// Back returns to the personal step keeping everything entered
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepAcademicInfo {
		return ErrWrongStep
	}
	w.step = StepPersonalInfo
	return nil
}

// Submit checks the academic step against the university minimums and sends
// the application. On success the wizard starts over with an empty draft; on
// any failure it stays on the academic step.
func (w *Wizard) Submit(ctx context.Context) (*SubmitResult, error) {
	w.mu.Lock()
	switch w.step {
	case StepSubmitted:
		w.mu.Unlock()
		return nil, ErrBusy
	case StepAcademicInfo:
	default:
		w.mu.Unlock()
		return nil, ErrWrongStep
	}
	if err := checkAcademic(w.academic, w.university); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	app := w.draft()
	w.step = StepSubmitted
	w.mu.Unlock()

	result, err := w.submitter.SubmitApplication(ctx, app)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.step = StepAcademicInfo
		return nil, err
	}
	w.step = StepPersonalInfo
	w.personal = PersonalInfo{}
	w.academic = AcademicInfo{}
	return result, nil
}

func checkPersonal(p PersonalInfo) error {
	var missing []string
	if strings.TrimSpace(p.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(p.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: MsgRequiredFields}
	}
	if !eligibility.ValidEmail(strings.TrimSpace(p.Email)) {
		return &ValidationError{Fields: []string{"email"}, Message: MsgInvalidEmail}
	}
	return nil
}

// checkAcademic returns a *ValidationError for missing input and an
// *eligibility.RequirementError for a score below the minimum
func checkAcademic(a AcademicInfo, university model.University) error {
	var missing []string
	if a.GPA == nil {
		missing = append(missing, "gpa")
	}
	if a.IELTSScore == nil {
		missing = append(missing, "ielts_score")
	}
	if strings.TrimSpace(a.FieldOfStudy) == "" {
		missing = append(missing, "field_of_study")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: MsgRequiredFields}
	}
	return eligibility.CheckRequirements(university, *a.GPA, *a.IELTSScore)
}
