package response

import (
	"net/url"
	"testing"

	"supplier_frontend/internal/models/brief"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func specialistBrief() brief.Brief {
	return brief.Brief{
		Id:                     42,
		Lot:                    "digital-specialists",
		EssentialRequirements:  []string{"Python", "SQL", "Communication"},
		NiceToHaveRequirements: []string{"AWS"},
	}
}

func completeForm() url.Values {
	return url.Values{
		"essentialRequirements-0":  {"Five years of Python"},
		"essentialRequirements-1":  {"Daily SQL work"},
		"essentialRequirements-2":  {"Presented to stakeholders"},
		"niceToHaveRequirements-0": {"Two AWS projects"},
		"availability":             {"2026-02-01"},
		"dayRate":                  {"1100"},
	}
}

func TestQuestionsFor(t *testing.T) {
	b := specialistBrief()
	questions := QuestionsFor(b)
	require.Len(t, questions, 2)
	assert.Equal(t, "availability", questions[0].Id)
	assert.Equal(t, "dayRate", questions[1].Id)
	assert.True(t, questions[1].Required)

	b.Lot = "digital-professionals"
	questions = QuestionsFor(b)
	require.Len(t, questions, 1)
	assert.Equal(t, "availability", questions[0].Id)
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	b := specialistBrief()

	sub, errs := Validate(completeForm(), b, QuestionsFor(b))

	require.Nil(t, errs)
	assert.Equal(t, []bool{true, true, true}, sub.EssentialRequirements)
	assert.Equal(t, []string{"Two AWS projects"}, sub.NiceToHaveRequirements)
	assert.Equal(t, "2026-02-01", sub.Answers["availability"])
	assert.Equal(t, "1100", sub.Answers["dayRate"])
}

func TestValidateMissingAvailability(t *testing.T) {
	b := specialistBrief()
	form := completeForm()
	form.Del("availability")

	sub, errs := Validate(form, b, QuestionsFor(b))

	require.Len(t, errs, 1)
	assert.Equal(t, "availability", errs[0].Field)
	assert.Equal(t, "#availability", errs[0].Anchor)
	assert.Equal(t, CodeAnswerRequired, errs[0].Code)
	assert.Equal(t, "You need to answer this question.", errs[0].Message)
	assert.Empty(t, sub.EssentialRequirements)
}

func TestValidateMissingEssentialRequirement(t *testing.T) {
	b := specialistBrief()
	form := completeForm()
	form.Set("essentialRequirements-2", "   ")

	sub, errs := Validate(form, b, QuestionsFor(b))

	require.Len(t, errs, 1)
	assert.Equal(t, "essentialRequirements-2", errs[0].Field)
	assert.Equal(t, "#essentialRequirements-2", errs[0].Anchor)
	assert.Equal(t, "Communication", errs[0].Label)
	assert.Empty(t, sub.Answers)
}

func TestValidateReportsEveryMissingField(t *testing.T) {
	b := specialistBrief()
	form := completeForm()
	form.Del("essentialRequirements-0")
	form.Del("availability")
	form.Del("dayRate")

	_, errs := Validate(form, b, QuestionsFor(b))

	require.Len(t, errs, 3)
	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field}
	assert.Contains(t, fields, "essentialRequirements-0")
	assert.Contains(t, fields, "availability")
	assert.Contains(t, fields, "dayRate")
}

func TestValidateNiceToHavesAreOptional(t *testing.T) {
	b := specialistBrief()
	form := completeForm()
	form.Del("niceToHaveRequirements-0")

	sub, errs := Validate(form, b, QuestionsFor(b))

	require.Nil(t, errs)
	assert.Empty(t, sub.NiceToHaveRequirements)
}
