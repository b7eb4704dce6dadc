package notify

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Email is one outbound message, fully rendered.
type Email struct {
	To          []string
	Subject     string
	Body        string
	FromAddress string
	FromName    string
}

// Dispatcher delivers rendered emails. Send either succeeds or returns the
// delivery error; retry policy belongs to the implementation, not callers.
type Dispatcher interface {
	Send(ctx context.Context, m Email) error
}

// SESDispatcher delivers through AWS SES.
type SESDispatcher struct {
	client *ses.Client
}

func NewSESDispatcher(ctx context.Context, region string) (*SESDispatcher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notify: load aws config: %w", err)
	}
	return &SESDispatcher{client: ses.NewFromConfig(cfg)}, nil
}

func (d *SESDispatcher) Send(ctx context.Context, m Email) error {
	source := m.FromAddress
	if m.FromName != "" {
		source = fmt.Sprintf("%s <%s>", m.FromName, m.FromAddress)
	}

	input := &ses.SendEmailInput{
		Source: &source,
		Destination: &types.Destination{
			ToAddresses: m.To,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: &m.Subject},
			Body: &types.Body{
				Html: &types.Content{Data: &m.Body},
			},
		},
	}
	if _, err := d.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("notify: send email: %w", err)
	}
	return nil
}
