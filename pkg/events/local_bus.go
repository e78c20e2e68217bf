package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const localTopic = "events"

// LocalBus is the in-process event bus used when no NATS server is configured.
type LocalBus struct {
	pubSub *gochannel.GoChannel
}

func NewLocalBus() *LocalBus {
	return &LocalBus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 256},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (b *LocalBus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(ToEnvelope(event))
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("subject", Subject(event))
	return b.pubSub.Publish(localTopic, msg)
}

// Subscribe consumes until ctx is cancelled. durableName is ignored; the local
// bus keeps nothing across restarts.
func (b *LocalBus) Subscribe(ctx context.Context, pattern, durableName string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, localTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			if !SubjectMatches(pattern, msg.Metadata.Get("subject")) {
				msg.Ack()
				continue
			}
			var env Envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				log.Printf("[ERROR] Failed to unmarshal event: %v", err)
				msg.Ack() // Ack invalid messages to prevent infinite retry
				continue
			}
			if err := handler(ctx, env.Event()); err != nil {
				log.Printf("[WARN] Handler failed for event %s: %v", env.Type, err)
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *LocalBus) Close() error {
	return b.pubSub.Close()
}
