package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/tedhz/LeTeam/internal/observability"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Publisher serializes domain events onto the social topic. A nil *Publisher
// is valid and publishes nothing, so stores can run without Kafka configured.
type Publisher struct {
	producer messageWriter
	logger   *log.Logger
}

// NewPublisher constructs a Publisher around a Kafka producer.
func NewPublisher(producer *KafkaProducer, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{producer: producer, logger: logger}
}

// PostCreated publishes a post.created event.
func (p *Publisher) PostCreated(ctx context.Context, event PostCreated) {
	p.publish(ctx, "post.created", event.OwnerUserID, event)
}

// UserFollowed publishes a user.followed event.
func (p *Publisher) UserFollowed(ctx context.Context, event UserFollowed) {
	p.publish(ctx, "user.followed", event.FollowerUserID, event)
}

// WorkoutCreated publishes a workout.created event.
func (p *Publisher) WorkoutCreated(ctx context.Context, event WorkoutCreated) {
	p.publish(ctx, "workout.created", event.UserID, event)
}

func (p *Publisher) publish(ctx context.Context, eventType, key string, payload interface{}) {
	if p == nil || p.producer == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Printf("event %s: marshal failed: %v", eventType, err)
		observability.RecordEventPublishFailure()
		return
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.producer.WriteMessages(ctx, Topic, msg); err != nil {
		p.logger.Printf("event %s: publish failed: %v", eventType, err)
		observability.RecordEventPublishFailure()
	}
}
