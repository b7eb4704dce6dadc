package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"supplier_frontend/internal/models/brief"
	"supplier_frontend/internal/models/user"
)

// Config carries the marketplace's clarification mailbox identity.
type Config struct {
	FromAddress string
	FromName    string
}

var ownerTemplate = template.Must(template.New("clarification_question").Parse(
	`<p>A supplier has asked a question about <a href="/briefs/{{.Brief.Id}}">‘{{.Brief.Title}}’</a>
({{.Brief.FrameworkSlug}}, {{.Brief.Lot}}).</p>
<blockquote>{{.Question}}</blockquote>
<p>You must publish your answer by {{.Brief.ClarificationQuestionsPublishedBy}}.</p>
`))

var confirmationTemplate = template.Must(template.New("clarification_question_confirmation").Parse(
	`<p>Hi {{.Asker.Name}},</p>
<p>We've sent your question about <a href="/briefs/{{.Brief.Id}}">‘{{.Brief.Title}}’</a> to the buyer:</p>
<blockquote>{{.Question}}</blockquote>
<p>The buyer will publish their answer with the other questions and answers on the opportunity page.</p>
`))

// ClarificationQuestion renders the two emails of the question flow: one to
// the brief's active users, one confirmation copy back to the asker.
type ClarificationQuestion struct {
	Brief    brief.Brief
	Question string
	Asker    user.Supplier
}

func (q ClarificationQuestion) OwnerEmail(cfg Config) (Email, error) {
	body, err := render(ownerTemplate, q)
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:          q.Brief.ActiveUserEmails(),
		Subject:     fmt.Sprintf("You’ve received a new supplier question about ‘%s’", q.Brief.Title),
		Body:        body,
		FromAddress: cfg.FromAddress,
		FromName:    fmt.Sprintf("%s Supplier", q.Brief.FrameworkName),
	}, nil
}

func (q ClarificationQuestion) ConfirmationEmail(cfg Config) (Email, error) {
	body, err := render(confirmationTemplate, q)
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:          []string{q.Asker.Email},
		Subject:     fmt.Sprintf("Your question about ‘%s’", q.Brief.Title),
		Body:        body,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}, nil
}

var responseReceivedTemplate = template.Must(template.New("brief_response_received").Parse(
	`<p>Hi {{.Asker.Name}},</p>
<p>Your application for <a href="/briefs/{{.Brief.Id}}">‘{{.Brief.Title}}’</a> has been received.</p>
<p>The buyer will be in contact after {{.Brief.Dates.ClosingTime}} if you have been shortlisted.</p>
`))

// ResponseReceived renders the confirmation sent after a brief response is
// persisted. Delivery failure never blocks the submission.
type ResponseReceived struct {
	Brief brief.Brief
	Asker user.Supplier
}

func (n ResponseReceived) Email(cfg Config) (Email, error) {
	body, err := render(responseReceivedTemplate, n)
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:          []string{n.Asker.Email},
		Subject:     fmt.Sprintf("Your application for ‘%s’", n.Brief.Title),
		Body:        body,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
