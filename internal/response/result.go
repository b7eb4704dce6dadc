package response

import (
	"fmt"
	"strings"

	"supplier_frontend/internal/models/brief"
	"supplier_frontend/internal/models/response"
)

// Evaluation methods that involve talking to the buyer collapse into a
// single "a meeting" bullet on the result page.
var meetingMethods = map[string]struct{}{
	"Interview":        {},
	"Scenario or test": {},
	"Presentation":     {},
}

const (
	meetingBullet           = "a meeting"
	defaultEvaluationMethod = "work history"
)

// EvaluationMethods renders the brief's declared evaluation methods for the
// result page: meeting-style methods become one deduplicated "a meeting"
// bullet, everything else is listed verbatim in lower case, and an empty
// declaration falls back to the default.
func EvaluationMethods(declared []string) []string {
	if len(declared) == 0 {
		return []string{defaultEvaluationMethod}
	}

	bullets := make([]string, 0, len(declared))
	seen := make(map[string]struct{}, len(declared))
	for _, method := range declared {
		bullet := strings.ToLower(method)
		if _, ok := meetingMethods[method]; ok {
			bullet = meetingBullet
		}
		if _, ok := seen[bullet]; ok {
			continue
		}
		seen[bullet] = struct{}{}
		bullets = append(bullets, bullet)
	}
	return bullets
}

// ResultView is the pass/fail summary shown once a response exists.
type ResultView struct {
	BriefId                int      `json:"briefId"`
	Title                  string   `json:"title"`
	Headline               string   `json:"headline"`
	MetAllEssentials       bool     `json:"metAllEssentials"`
	EvaluationMethods      []string `json:"evaluationMethods"`
	NiceToHaveRequirements []string `json:"niceToHaveRequirements,omitempty"`
}

// BuildResultView summarises the stored response against its brief. The
// headline depends only on the stored essentialRequirements booleans.
func BuildResultView(b brief.Brief, r response.BriefResponse) ResultView {
	met := r.MetAllEssentials()
	headline := fmt.Sprintf("Thanks for your application. You've now applied for ‘%s’", b.Title)
	if !met {
		headline = "You don't meet all the essential requirements"
	}
	return ResultView{
		BriefId:           b.Id,
		Title:             b.Title,
		Headline:          headline,
		MetAllEssentials:  met,
		EvaluationMethods: EvaluationMethods(b.EvaluationType),
		// The nice-to-have section is omitted when the brief declares none.
		NiceToHaveRequirements: b.NiceToHaveRequirements,
	}
}
