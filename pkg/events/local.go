package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// LocalTopic carries every event on the in-process bus.
const LocalTopic = "events"

// Envelope is the message body written to the local bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// LocalPublisher publishes onto a watermill go-channel pub/sub.
type LocalPublisher struct {
	pubSub *gochannel.GoChannel
}

func NewLocalPublisher(pubSub *gochannel.GoChannel) *LocalPublisher {
	return &LocalPublisher{pubSub: pubSub}
}

func (p *LocalPublisher) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(Envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", event.EventType())
	return p.pubSub.Publish(LocalTopic, msg)
}
