// internal/common/aws/sns.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	apperrors "homework-status-bot/internal/common/errors"
)

const alertSubject = "homework-status-bot alert"

// SNSService is the subset of the SNS client used here.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSAlerter publishes operator alerts to a single SNS topic.
type SNSAlerter struct {
	client   SNSService
	topicARN string
}

func NewSNSAlerter(ctx context.Context, region, topicARN string) (*SNSAlerter, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSNSAlerterWithClient(sns.NewFromConfig(cfg), topicARN), nil
}

func NewSNSAlerterWithClient(client SNSService, topicARN string) *SNSAlerter {
	return &SNSAlerter{client: client, topicARN: topicARN}
}

// Alert publishes message to the topic.
func (s *SNSAlerter) Alert(ctx context.Context, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String(alertSubject),
		Message:  aws.String(message),
	})
	if err != nil {
		return apperrors.NewAlertPublishFailedError(err)
	}
	return nil
}
