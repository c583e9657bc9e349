package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
)

type submitFunc func(ctx context.Context, app Application) (*SubmitResult, error)

func (f submitFunc) SubmitApplication(ctx context.Context, app Application) (*SubmitResult, error) {
	return f(ctx, app)
}

var target = model.University{ID: "uni-1", Name: "Test University", MinGPA: 3.5, MinIELTS: 7.0}

func validPersonal() PersonalInfo {
	return PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "a@b.co"}
}

func validAcademic() AcademicInfo {
	return AcademicInfo{GPA: eligibility.Float(3.6), IELTSScore: eligibility.Float(7.5), FieldOfStudy: "Mathematics"}
}

func accepted(context.Context, Application) (*SubmitResult, error) {
	return &SubmitResult{ApplicationID: "app-1", Message: "ok"}, nil
}

func wizardOnAcademicStep(t *testing.T, submitter Submitter) *Wizard {
	t.Helper()
	w := NewWizard(target, submitter)
	require.NoError(t, w.SetPersonalInfo(validPersonal()))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetAcademicInfo(validAcademic()))
	return w
}

func TestWizardPersonalGuard(t *testing.T) {
	tests := []struct {
		name    string
		info    PersonalInfo
		message string
		fields  []string
	}{
		{"missing last name", PersonalInfo{FirstName: "Ada", Email: "a@b.co"}, MsgRequiredFields, []string{"last_name"}},
		{"blank names", PersonalInfo{FirstName: " ", LastName: "", Email: "a@b.co"}, MsgRequiredFields, []string{"first_name", "last_name"}},
		{"not an email", PersonalInfo{FirstName: "Ada", LastName: "L", Email: "not-an-email"}, MsgInvalidEmail, []string{"email"}},
		{"no tld", PersonalInfo{FirstName: "Ada", LastName: "L", Email: "a@b"}, MsgInvalidEmail, []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWizard(target, submitFunc(accepted))
			require.NoError(t, w.SetPersonalInfo(tt.info))

			err := w.Next()
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.message, vErr.Message)
			assert.Equal(t, tt.fields, vErr.Fields)
			assert.Equal(t, StepPersonalInfo, w.Step())
		})
	}

	t.Run("valid email advances", func(t *testing.T) {
		w := NewWizard(target, submitFunc(accepted))
		require.NoError(t, w.SetPersonalInfo(validPersonal()))
		require.NoError(t, w.Next())
		assert.Equal(t, StepAcademicInfo, w.Step())
	})
}

func TestWizardTransitions(t *testing.T) {
	w := NewWizard(target, submitFunc(accepted))

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrWrongStep)
	assert.ErrorIs(t, w.Back(), ErrWrongStep)
	assert.ErrorIs(t, w.SetAcademicInfo(validAcademic()), ErrWrongStep)

	require.NoError(t, w.SetPersonalInfo(validPersonal()))
	require.NoError(t, w.Next())
	assert.ErrorIs(t, w.Next(), ErrWrongStep)
	assert.ErrorIs(t, w.SetPersonalInfo(validPersonal()), ErrWrongStep)

	require.NoError(t, w.Back())
	assert.Equal(t, StepPersonalInfo, w.Step())
	assert.Equal(t, "Ada", w.Draft().FirstName)
}

func TestWizardAcademicGuard(t *testing.T) {
	t.Run("missing scores", func(t *testing.T) {
		w := wizardOnAcademicStep(t, submitFunc(accepted))
		require.NoError(t, w.SetAcademicInfo(AcademicInfo{FieldOfStudy: "Law"}))

		_, err := w.Submit(context.Background())
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"gpa", "ielts_score"}, vErr.Fields)
		assert.Equal(t, StepAcademicInfo, w.Step())
	})

	t.Run("gpa below minimum names both values", func(t *testing.T) {
		called := false
		w := wizardOnAcademicStep(t, submitFunc(func(context.Context, Application) (*SubmitResult, error) {
			called = true
			return nil, nil
		}))
		academic := validAcademic()
		academic.GPA = eligibility.Float(3.0)
		require.NoError(t, w.SetAcademicInfo(academic))

		_, err := w.Submit(context.Background())
		var reqErr *eligibility.RequirementError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "Your GPA (3) is below the minimum requirement (3.5)", err.Error())
		assert.False(t, called)
		assert.Equal(t, StepAcademicInfo, w.Step())
	})

	t.Run("ielts below minimum", func(t *testing.T) {
		w := wizardOnAcademicStep(t, submitFunc(accepted))
		academic := validAcademic()
		academic.IELTSScore = eligibility.Float(6.5)
		require.NoError(t, w.SetAcademicInfo(academic))

		_, err := w.Submit(context.Background())
		assert.EqualError(t, err, "Your IELTS score (6.5) is below the minimum requirement (7)")
	})
}

func TestWizardSubmit(t *testing.T) {
	t.Run("success resets the draft", func(t *testing.T) {
		var sent Application
		w := wizardOnAcademicStep(t, submitFunc(func(_ context.Context, app Application) (*SubmitResult, error) {
			sent = app
			return &SubmitResult{ApplicationID: "app-1", Message: "ok"}, nil
		}))

		result, err := w.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "app-1", result.ApplicationID)
		assert.Equal(t, "uni-1", sent.UniversityID)
		assert.Equal(t, "Ada", sent.FirstName)
		assert.Equal(t, StepPersonalInfo, w.Step())
		assert.Equal(t, Application{UniversityID: "uni-1"}, w.Draft())
	})

	t.Run("gateway failure stays on academic step", func(t *testing.T) {
		rejection := &APIError{Status: 400, Code: "gpa_below_minimum", Details: "too low"}
		w := wizardOnAcademicStep(t, submitFunc(func(context.Context, Application) (*SubmitResult, error) {
			return nil, rejection
		}))

		_, err := w.Submit(context.Background())
		assert.ErrorIs(t, err, rejection)
		assert.Equal(t, StepAcademicInfo, w.Step())
		assert.False(t, w.Busy())
		assert.Equal(t, "Ada", w.Draft().FirstName)

		// The user can retry without re-entering anything
		_, err = w.Submit(context.Background())
		assert.True(t, errors.Is(err, rejection))
	})

	t.Run("second submit while in flight", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		w := wizardOnAcademicStep(t, submitFunc(func(context.Context, Application) (*SubmitResult, error) {
			close(entered)
			<-release
			return &SubmitResult{ApplicationID: "app-1"}, nil
		}))

		done := make(chan error, 1)
		go func() {
			_, err := w.Submit(context.Background())
			done <- err
		}()

		<-entered
		assert.True(t, w.Busy())
		_, err := w.Submit(context.Background())
		assert.ErrorIs(t, err, ErrBusy)
		assert.ErrorIs(t, w.SetAcademicInfo(validAcademic()), ErrWrongStep)

		close(release)
		require.NoError(t, <-done)
		assert.False(t, w.Busy())
	})
}

func TestApplicationJSONIsFlat(t *testing.T) {
	w := wizardOnAcademicStep(t, submitFunc(accepted))
	raw, err := json.Marshal(w.Draft())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"university_id": "uni-1",
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "a@b.co",
		"gpa": 3.6,
		"ielts_score": 7.5,
		"field_of_study": "Mathematics"
	}`, string(raw))
}
