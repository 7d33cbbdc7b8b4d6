package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/infrastructure/ratelimit"
	"gigmarket/pkg/errors"
)

func newChatFixture() (*ChatUseCase, *fakeMessageRepo, *fakeTokenRepo, *fakePush) {
	messages := newFakeMessageRepo()
	tokens := newFakeTokenRepo()
	push := &fakePush{}
	profiles := newFakeProfileRepo(
		&entity.Profile{ID: "s", FirstName: "Sam"},
		&entity.Profile{ID: "r", FirstName: "Riley", LastName: "Fox"},
	)
	uc := NewChatUseCase(messages, profiles, tokens, push, ratelimit.NewRateLimiter(60))
	return uc, messages, tokens, push
}

func TestSendMessageIgnoresBlankText(t *testing.T) {
	uc, messages, _, _ := newChatFixture()

	for _, text := range []string{"", " ", "\n\t  "} {
		m, err := uc.SendMessage(context.Background(), "s", SendMessageInput{ReceiverID: "r", Text: text})
		assert.NoError(t, err)
		assert.Nil(t, m)
	}
	assert.Equal(t, 0, messages.count())
}

func TestSendMessageRequiresActor(t *testing.T) {
	uc, messages, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "", SendMessageInput{ReceiverID: "r", Text: "hi"})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	_, err = uc.SendMessage(context.Background(), "s", SendMessageInput{ReceiverID: "s", Text: "hi"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Equal(t, 0, messages.count())
}

func TestSendMessageRegistersTokenAndNotifies(t *testing.T) {
	uc, messages, tokens, push := newChatFixture()
	ctx := context.Background()
	require.NoError(t, tokens.Register(ctx, "r", "receiver-device"))

	m, err := uc.SendMessage(ctx, "s", SendMessageInput{ReceiverID: "r", Text: "Hello!", DeviceToken: "sender-device"})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.False(t, m.Timestamp.IsZero(), "stored timestamp is returned")
	uc.Wait()

	assert.Equal(t, 1, messages.count())
	senderTokens, _ := tokens.ListByUser(ctx, "s")
	assert.Equal(t, []string{"sender-device"}, senderTokens)

	require.Len(t, push.sent, 1)
	assert.Equal(t, []string{"receiver-device"}, push.to[0])
	assert.Equal(t, "Sam", push.sent[0].Title)
	assert.Equal(t, "Hello!", push.sent[0].Body)
}

func TestSendMessageDropsStaleTokens(t *testing.T) {
	uc, _, tokens, push := newChatFixture()
	ctx := context.Background()
	require.NoError(t, tokens.Register(ctx, "r", "old-device"))
	push.stale = []string{"old-device"}

	_, err := uc.SendMessage(ctx, "s", SendMessageInput{ReceiverID: "r", Text: "ping"})
	require.NoError(t, err)
	uc.Wait()

	left, _ := tokens.ListByUser(ctx, "r")
	assert.Empty(t, left)
}

func TestSendMessageIsRateLimited(t *testing.T) {
	uc, messages, _, _ := newChatFixture()
	ctx := context.Background()

	var limited error
	for i := 0; i < 20 && limited == nil; i++ {
		_, limited = uc.SendMessage(ctx, "s", SendMessageInput{ReceiverID: "r", Text: "spam"})
	}
	uc.Wait()
	require.Error(t, limited)
	assert.True(t, errors.Is(limited, "TOO_MANY_REQUESTS"))
	assert.Equal(t, 10, messages.count())
}

func TestRenderChatScenario(t *testing.T) {
	messages := []*entity.Message{
		{ID: "2", SenderID: "r", ReceiverID: "s", Text: "Hi!", Timestamp: time.Unix(1620003600, 0)},
		{ID: "1", SenderID: "s", ReceiverID: "r", Text: "Hello!", Timestamp: time.Unix(1620000000, 0)},
	}

	lines := RenderChat(messages, "s", "Riley Fox")
	require.Len(t, lines, 2)
	assert.Equal(t, "Hello!", lines[0].Text)
	assert.Equal(t, "You", lines[0].Author)
	assert.True(t, lines[0].Mine)
	assert.Equal(t, "Hi!", lines[1].Text)
	assert.Equal(t, "Riley Fox", lines[1].Author)
	assert.False(t, lines[1].Mine)
}

func receiveUpdate(t *testing.T, sub *ChatSubscription) []*entity.Message {
	t.Helper()
	select {
	case msgs, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed")
		return msgs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for chat update")
	}
	return nil
}

func TestSubscribeDeliversOnlyThePair(t *testing.T) {
	uc, messages, _, _ := newChatFixture()
	ctx := context.Background()

	sub, err := uc.Subscribe(ctx, "s", "r")
	require.NoError(t, err)
	defer sub.Stop()

	assert.Empty(t, receiveUpdate(t, sub))

	require.NoError(t, messages.Create(ctx, &entity.Message{SenderID: "s", ReceiverID: "r", Text: "Hello!"}))
	require.NoError(t, messages.Create(ctx, &entity.Message{SenderID: "x", ReceiverID: "s", Text: "not for this chat"}))
	require.NoError(t, messages.Create(ctx, &entity.Message{SenderID: "r", ReceiverID: "s", Text: "Hi!"}))

	var latest []*entity.Message
	for len(latest) < 2 {
		latest = receiveUpdate(t, sub)
	}
	lines := RenderChat(latest, "s", "Riley Fox")
	assert.Equal(t, []string{"Hello!", "Hi!"}, []string{lines[0].Text, lines[1].Text})
	for _, m := range latest {
		assert.True(t, m.Between("s", "r"))
	}
}

func TestSubscriptionStopIsIdempotent(t *testing.T) {
	uc, _, _, _ := newChatFixture()

	sub, err := uc.Subscribe(context.Background(), "s", "r")
	require.NoError(t, err)

	sub.Stop()
	sub.Stop()

	for range sub.Updates() {
	}
	assert.NoError(t, sub.Err())
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	uc, _, _, _ := newChatFixture()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := uc.Subscribe(ctx, "s", "r")
	require.NoError(t, err)
	cancel()

	select {
	case <-sub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop with its context")
	}
	sub.Stop()
}

func TestSubscribeValidation(t *testing.T) {
	uc, _, _, _ := newChatFixture()

	_, err := uc.Subscribe(context.Background(), "", "r")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	_, err = uc.Subscribe(context.Background(), "s", "s")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
