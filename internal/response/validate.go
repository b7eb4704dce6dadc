package response

import (
	"fmt"
	"net/url"
	"strings"

	"supplier_frontend/internal/models/brief"
	"supplier_frontend/internal/models/response"
)

const (
	CodeAnswerRequired = "answer_required"

	answerRequiredMessage = "You need to answer this question."
)

// Question is a brief-specific scalar question rendered on the response form.
type Question struct {
	Id       string `json:"id"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// QuestionsFor returns the scalar questions the brief's lot declares.
func QuestionsFor(b brief.Brief) []Question {
	if b.Lot == "digital-specialists" {
		return []Question{
			{Id: "availability", Label: "Date the specialist can start work", Required: true},
			{Id: "dayRate", Label: "Day rate, including GST", Required: true},
		}
	}
	return []Question{
		{Id: "availability", Label: "Date the supplier can start work", Required: true},
	}
}

// FieldError points at the form field that failed, with an in-page anchor so
// the error summary can link straight to it.
type FieldError struct {
	Field   string `json:"field"`
	Anchor  string `json:"anchor"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Label   string `json:"label,omitempty"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	fields := make([]string, len(v))
	for i, fe := range v {
		fields[i] = fe.Field
	}
	return "validation failed for " + strings.Join(fields, ", ")
}

// Validate normalises the submitted form against the brief's declared
// requirements. Every missing required field is reported; validation never
// stops at the first failure. On any error the submission is discarded
// whole, nothing is partially accepted.
func Validate(form url.Values, b brief.Brief, questions []Question) (response.Submission, ValidationErrors) {
	var errs ValidationErrors

	essentials := make([]bool, 0, len(b.EssentialRequirements))
	for i, requirement := range b.EssentialRequirements {
		field := fmt.Sprintf("essentialRequirements-%d", i)
		if strings.TrimSpace(form.Get(field)) == "" {
			errs = append(errs, fieldError(field, requirement))
			continue
		}
		essentials = append(essentials, true)
	}

	// Nice-to-haves are optional: unanswered entries are simply omitted, a
	// shorter list is valid.
	niceToHaves := make([]string, 0, len(b.NiceToHaveRequirements))
	for i := range b.NiceToHaveRequirements {
		field := fmt.Sprintf("niceToHaveRequirements-%d", i)
		if answer := strings.TrimSpace(form.Get(field)); answer != "" {
			niceToHaves = append(niceToHaves, answer)
		}
	}

	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		answer := strings.TrimSpace(form.Get(q.Id))
		if answer == "" {
			if q.Required {
				errs = append(errs, fieldError(q.Id, q.Label))
			}
			continue
		}
		answers[q.Id] = answer
	}

	if len(errs) > 0 {
		return response.Submission{}, errs
	}
	return response.Submission{
		EssentialRequirements:  essentials,
		NiceToHaveRequirements: niceToHaves,
		Answers:                answers,
	}, nil
}

func fieldError(field, label string) FieldError {
	return FieldError{
		Field:   field,
		Anchor:  "#" + field,
		Code:    CodeAnswerRequired,
		Message: answerRequiredMessage,
		Label:   label,
	}
}
