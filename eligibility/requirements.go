package eligibility

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jagravi04/unimatch-finder/model"
)

// emailPattern is a structural check only: something@something.something, no whitespace.
// Quoted local parts and other RFC 5322 forms are intentionally not supported.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the local@domain.tld shape
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Requirement names the score axis a check failed on
type Requirement string

const (
	RequirementGPA   Requirement = "gpa"
	RequirementIELTS Requirement = "ielts"
)

// RequirementError is returned when a score is below the university minimum
type RequirementError struct {
	Requirement    Requirement
	Score          float64
	Minimum        float64
	UniversityName string
}

func (e *RequirementError) Error() string {
	switch e.Requirement {
	case RequirementIELTS:
		return fmt.Sprintf("Your IELTS score (%s) is below the minimum requirement (%s)",
			FormatScore(e.Score), FormatScore(e.Minimum))
	default:
		return fmt.Sprintf("Your GPA (%s) is below the minimum requirement (%s)",
			FormatScore(e.Score), FormatScore(e.Minimum))
	}
}

// Details is the long form used by the submission gateway; it names the university
func (e *RequirementError) Details() string {
	switch e.Requirement {
	case RequirementIELTS:
		return fmt.Sprintf("Your IELTS score (%s) is below %s's minimum requirement of %s. Please consider improving your IELTS score before applying.",
			FormatScore(e.Score), e.UniversityName, FormatScore(e.Minimum))
	default:
		return fmt.Sprintf("Your GPA (%s) is below %s's minimum requirement of %s. Please consider applying to universities with lower GPA requirements.",
			FormatScore(e.Score), e.UniversityName, FormatScore(e.Minimum))
	}
}

// CheckRequirements gates an application on the university minimums.
// GPA is checked before IELTS; comparisons are inclusive and a NaN score never passes.
func CheckRequirements(u model.University, gpa, ielts float64) error {
	if !(gpa >= u.MinGPA) {
		return &RequirementError{Requirement: RequirementGPA, Score: gpa, Minimum: u.MinGPA, UniversityName: u.Name}
	}
	if !(ielts >= u.MinIELTS) {
		return &RequirementError{Requirement: RequirementIELTS, Score: ielts, Minimum: u.MinIELTS, UniversityName: u.Name}
	}
	return nil
}

// FormatScore renders a score the shortest way that round-trips: 3, 3.5, 7.25
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
