// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"nanomatch/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const MatchRecordedEvent = "match.recorded"

// Publisher is the subset of the SNS client used here.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient wraps the AWS SNS client built from the default credential chain.
type SNSClient struct {
	client Publisher
}

// NewSNSClient creates an SNS client for the given region.
func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

type matchEvent struct {
	Event string             `json:"event"`
	Match models.MatchRecord `json:"match"`
}

// MatchEventPublisher fans match records out to an SNS topic for downstream analytics.
type MatchEventPublisher struct {
	client   Publisher
	topicARN string
}

// NewMatchEventPublisher creates a publisher for the given topic.
func NewMatchEventPublisher(client Publisher, topicARN string) *MatchEventPublisher {
	return &MatchEventPublisher{client: client, topicARN: topicARN}
}

func NewMatchEventPublisherFromSNS(s *SNSClient, topicARN string) *MatchEventPublisher {
	return NewMatchEventPublisher(s.client, topicARN)
}

// RecordMatch publishes one match.recorded event.
func (p *MatchEventPublisher) RecordMatch(ctx context.Context, record models.MatchRecord) error {
	body, err := json.Marshal(matchEvent{Event: MatchRecordedEvent, Match: record})
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(p.topicARN),
		Message:  awssdk.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: awssdk.String("String"), StringValue: awssdk.String(MatchRecordedEvent)},
			"label": {DataType: awssdk.String("String"), StringValue: awssdk.String(string(record.Label))},
		},
	})
	if err != nil {
		return fmt.Errorf("publish match event: %w", err)
	}
	return nil
}
