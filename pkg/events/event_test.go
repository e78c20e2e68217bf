package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectMatches(t *testing.T) {
	assert.True(t, SubjectMatches(AllSubjects, "events.USER_LOGIN"))
	assert.True(t, SubjectMatches("events.CHAT_CREATED", "events.CHAT_CREATED"))
	assert.False(t, SubjectMatches("events.CHAT_CREATED", "events.CHAT_ARCHIVED"))
	assert.False(t, SubjectMatches(AllSubjects, "events."))
	assert.False(t, SubjectMatches(AllSubjects, "other.USER_LOGIN"))
}

func TestLocalBus_DeliversMatchingEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewLocalBus()
	defer bus.Close()

	received := make(chan Event, 2)
	require.NoError(t, bus.Subscribe(ctx, "events.CHAT_CREATED", "test", func(ctx context.Context, e Event) error {
		received <- e
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, New(TypeUserLogin, map[string]interface{}{"user_id": "u1"})))
	require.NoError(t, bus.Publish(ctx, New(TypeChatCreated, map[string]interface{}{"chat_id": "c1"})))

	select {
	case e := <-received:
		assert.Equal(t, TypeChatCreated, e.EventType())
		assert.Equal(t, "c1", e.Payload()["chat_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}
