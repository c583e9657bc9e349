package eligibility

import "github.com/jagravi04/unimatch-finder/model"

// Result is the three-valued eligibility verdict for one university
type Result string

const (
	Unknown    Result = "unknown"
	Eligible   Result = "eligible"
	Ineligible Result = "ineligible"
)

// Evaluate compares the optional user scores with the university minimums.
// No scores gives Unknown. Any present score below its minimum gives Ineligible,
// whether or not the other score was supplied. NaN counts as below.
func Evaluate(u model.University, userGPA, userIELTS *float64) Result {
	if userGPA == nil && userIELTS == nil {
		return Unknown
	}
	if userGPA != nil && !(*userGPA >= u.MinGPA) {
		return Ineligible
	}
	if userIELTS != nil && !(*userIELTS >= u.MinIELTS) {
		return Ineligible
	}
	return Eligible
}

// Evaluated pairs a university with its verdict
type Evaluated struct {
	model.University
	Eligibility Result `json:"eligibility"`
}

// EvaluateAll evaluates every university against the scores carried by c
func EvaluateAll(universities []model.University, c Criteria) []Evaluated {
	out := make([]Evaluated, len(universities))
	for i, u := range universities {
		out[i] = Evaluated{University: u, Eligibility: Evaluate(u, c.UserGPA, c.UserIELTS)}
	}
	return out
}
