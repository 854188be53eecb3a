package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
)

// snsPublisher is the part of the SNS client used for SMS.
type snsPublisher interface {
	PublishWithContext(ctx aws.Context, input *sns.PublishInput, opts ...request.Option) (*sns.PublishOutput, error)
}

// SNSSender sends SMS through Amazon SNS direct publish.
type SNSSender struct {
	client snsPublisher
}

// NewSNSSender builds an SNS client for region using the default AWS
// credential chain.
func NewSNSSender(region string) (*SNSSender, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("sns session: %w", err)
	}
	return &SNSSender{client: sns.New(sess)}, nil
}

func (s *SNSSender) Name() string { return "sns" }

func (s *SNSSender) Send(ctx context.Context, phone, body string) (Result, error) {
	out, err := s.client.PublishWithContext(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(body),
		MessageAttributes: map[string]*sns.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Status:    StatusSuccess,
		Message:   "SMS alert sent successfully via SNS",
		Recipient: phone,
		SID:       aws.StringValue(out.MessageId),
	}, nil
}
