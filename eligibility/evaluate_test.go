package eligibility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jagravi04/unimatch-finder/model"
)

func TestEvaluate(t *testing.T) {
	u := model.University{Name: "Test University", MinGPA: 3.5, MinIELTS: 7.0}

	tests := []struct {
		name  string
		gpa   *float64
		ielts *float64
		want  Result
	}{
		{"no scores", nil, nil, Unknown},
		{"gpa only failing", Float(3.2), nil, Ineligible},
		{"gpa only passing", Float(3.5), nil, Eligible},
		{"ielts only passing", nil, Float(7.5), Eligible},
		{"ielts only failing", nil, Float(6.5), Ineligible},
		{"both at minimum", Float(3.5), Float(7.0), Eligible},
		{"gpa fails ielts passes", Float(3.4), Float(8.0), Ineligible},
		{"gpa passes ielts fails", Float(4.0), Float(6.9), Ineligible},
		{"zero gpa is a present score", Float(0), nil, Ineligible},
		{"nan gpa never passes", Float(math.NaN()), nil, Ineligible},
		{"nan ielts never passes", Float(4.0), Float(math.NaN()), Ineligible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(u, tt.gpa, tt.ielts))
		})
	}
}

func TestEvaluateAll(t *testing.T) {
	us := catalog()[:3]
	c := Criteria{UserGPA: Float(3.8), UserIELTS: Float(7.0)}

	got := EvaluateAll(us, c)

	assert.Len(t, got, 3)
	assert.Equal(t, Ineligible, got[0].Eligibility) // Harvard 3.9 / 7.5
	assert.Equal(t, Eligible, got[1].Eligibility)   // Oxford 3.7 / 7.0
	assert.Equal(t, Eligible, got[2].Eligibility)   // Toronto 3.5 / 6.5
	assert.Equal(t, got, EvaluateAll(us, c))
}
