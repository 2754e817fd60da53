package push

import (
	"context"
	"fmt"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/hostelhub/notifykit/pkg/session"
)

// SNSConfig holds the environment-backed settings for SNS-based delivery.
type SNSConfig struct {
	Region   string `env:"NOTIFY_SNS_REGION" envDefault:"ap-south-1"`
	TopicARN string `env:"NOTIFY_SNS_TOPIC_ARN"`
}

// snsAPI is the subset of the SNS client the bridge uses.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSBridge delivers background notifications by publishing to an SNS topic
// that the mobile application's device endpoints are subscribed to.
type SNSBridge struct {
	client   snsAPI
	topicARN string

	mu       sync.RWMutex
	identity session.Identity
}

// NewSNSBridge loads the default AWS configuration for cfg.Region and
// creates a bridge publishing to cfg.TopicARN. An empty topic ARN yields an
// unsupported bridge whose calls are no-ops.
func NewSNSBridge(ctx context.Context, cfg SNSConfig) (*SNSBridge, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &SNSBridge{
		client:   sns.NewFromConfig(awsCfg),
		topicARN: cfg.TopicARN,
	}, nil
}

func (b *SNSBridge) Initialize(ctx context.Context, identity session.Identity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.identity = identity
	return nil
}

func (b *SNSBridge) Supported() bool {
	return b.topicARN != ""
}

// RequestPermission is granted implicitly: topic delivery needs no per-user
// platform prompt.
func (b *SNSBridge) RequestPermission(ctx context.Context) error {
	return nil
}

func (b *SNSBridge) Show(ctx context.Context, title, body string) error {
	if !b.Supported() {
		return nil
	}

	message := body
	_, err := b.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &b.topicARN,
		Subject:  &title,
		Message:  &message,
	})
	if err != nil {
		return fmt.Errorf("publishing push notification: %w", err)
	}

	return nil
}
