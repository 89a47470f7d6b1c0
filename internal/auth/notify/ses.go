package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESNotifier delivers credential emails through Amazon SES.
type SESNotifier struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
}

// NewSESNotifier loads the default AWS credential chain for the given
// region. The from address must be a verified SES identity.
func NewSESNotifier(ctx context.Context, region, fromEmail, fromName string) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESNotifier{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

func (s *SESNotifier) Name() string { return "ses" }

func (s *SESNotifier) SendPasswordReset(ctx context.Context, to, name, resetURL string, validity time.Duration) error {
	subject := "Reset your portal password"

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset the password for your portal account.

Use the link below to choose a new password:
%s

This link expires in %d minutes and can only be used once.

If you didn't request a password reset, you can safely ignore this email.
`, name, resetURL, int(validity.Minutes()))

	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset the password for your portal account.</p>
<p><a href="%s">Reset your password</a></p>
<p>This link expires in %d minutes and can only be used once.</p>
<p>If you didn't request a password reset, you can safely ignore this email.</p>
`, name, resetURL, int(validity.Minutes()))

	return s.send(ctx, to, subject, htmlBody, textBody)
}

func (s *SESNotifier) SendTemporaryPassword(ctx context.Context, to, name, tempPassword string) error {
	subject := "Your portal account is ready"

	textBody := fmt.Sprintf(`Hi %s,

An account has been created for you on the portal.

Your temporary password is: %s

You will be asked to choose your own password the first time you sign in.
`, name, tempPassword)

	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>An account has been created for you on the portal.</p>
<p>Your temporary password is: <code>%s</code></p>
<p>You will be asked to choose your own password the first time you sign in.</p>
`, name, tempPassword)

	return s.send(ctx, to, subject, htmlBody, textBody)
}

func (s *SESNotifier) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}

	return nil
}
