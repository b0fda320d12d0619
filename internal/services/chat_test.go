package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riconnect/internal/domain"
)

type fakeChatClient struct {
	sent []domain.ChatMessage
	err  error
}

func (f *fakeChatClient) Send(ctx context.Context, token string, msg domain.ChatMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeChatClient) Listen(ctx context.Context, token string, handle func(domain.ChatMessage)) error {
	handle(domain.ChatMessage{ChatID: "c1", Message: "hi", SentFrom: "ivo@example.com"})
	return nil
}

func TestChatService(t *testing.T) {
	client := &fakeChatClient{}
	verifier := fakeVerifier{claims: map[string]domain.TokenClaims{"tok": {Email: "ana@example.com"}}}
	svc := NewChatService(client, verifier)

	msg, err := svc.Send(context.Background(), "tok", "c1", "  see you there ")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatMessage{Action: "sendmessage", ChatID: "c1", Message: "see you there", SentFrom: "ana@example.com"}, *msg)
	assert.Len(t, client.sent, 1)

	_, err = svc.Send(context.Background(), "tok", "c1", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Send(context.Background(), "bad", "c1", "hi")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	client.err = errors.New("socket closed")
	_, err = svc.Send(context.Background(), "tok", "c1", "hi")
	assert.Error(t, err)

	var got []domain.ChatMessage
	require.NoError(t, svc.Listen(context.Background(), "tok", func(m domain.ChatMessage) { got = append(got, m) }))
	assert.Len(t, got, 1)
}
