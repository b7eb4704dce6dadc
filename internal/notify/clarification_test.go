package notify

import (
	"testing"

	"supplier_frontend/internal/models/brief"
	"supplier_frontend/internal/models/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionBrief() brief.Brief {
	return brief.Brief{
		Id:                                42,
		Title:                             "Python developer",
		FrameworkName:                     "Digital Marketplace",
		ClarificationQuestionsPublishedBy: "2026-01-28",
		Users: []brief.User{
			{EmailAddress: "owner@example.gov.au", Active: true},
			{EmailAddress: "former@example.gov.au", Active: false},
		},
	}
}

func mailboxConfig() Config {
	return Config{
		FromAddress: "no-reply@marketplace.service.gov.au",
		FromName:    "Digital Marketplace",
	}
}

func TestOwnerEmail(t *testing.T) {
	q := ClarificationQuestion{
		Brief:    questionBrief(),
		Question: "When does the contract start?",
		Asker:    user.Supplier{Code: "1234", Email: "me@seller.com.au", Name: "Alex"},
	}

	m, err := q.OwnerEmail(mailboxConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"owner@example.gov.au"}, m.To)
	assert.Equal(t, "You’ve received a new supplier question about ‘Python developer’", m.Subject)
	assert.Equal(t, "Digital Marketplace Supplier", m.FromName)
	assert.Contains(t, m.Body, "When does the contract start?")
	assert.Contains(t, m.Body, "2026-01-28")
}

func TestOwnerEmailEscapesQuestion(t *testing.T) {
	q := ClarificationQuestion{
		Brief:    questionBrief(),
		Question: "<script>alert(1)</script>",
		Asker:    user.Supplier{Email: "me@seller.com.au"},
	}

	m, err := q.OwnerEmail(mailboxConfig())
	require.NoError(t, err)

	assert.NotContains(t, m.Body, "<script>")
	assert.Contains(t, m.Body, "&lt;script&gt;")
}

func TestConfirmationEmail(t *testing.T) {
	q := ClarificationQuestion{
		Brief:    questionBrief(),
		Question: "When does the contract start?",
		Asker:    user.Supplier{Email: "me@seller.com.au", Name: "Alex"},
	}

	m, err := q.ConfirmationEmail(mailboxConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"me@seller.com.au"}, m.To)
	assert.Equal(t, "Your question about ‘Python developer’", m.Subject)
	assert.Equal(t, "Digital Marketplace", m.FromName)
}

func TestResponseReceivedEmail(t *testing.T) {
	b := questionBrief()
	b.Dates = brief.Dates{ClosingTime: "2026-01-31T18:00:00+11:00"}

	n := ResponseReceived{
		Brief: b,
		Asker: user.Supplier{Email: "me@seller.com.au", Name: "Alex"},
	}

	m, err := n.Email(mailboxConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"me@seller.com.au"}, m.To)
	assert.Equal(t, "Your application for ‘Python developer’", m.Subject)
	assert.Contains(t, m.Body, "Alex")
	assert.Contains(t, m.Body, "2026-01-31T18:00:00")
}
