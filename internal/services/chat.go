package services

import (
	"context"
	"fmt"
	"strings"

	"riconnect/internal/domain"
)

type chatService struct {
	client   domain.ChatClient
	verifier domain.TokenVerifier
}

func NewChatService(client domain.ChatClient, verifier domain.TokenVerifier) domain.ChatService {
	return &chatService{client: client, verifier: verifier}
}

// Send posts text to chatID, signed with the email in token.
func (s *chatService) Send(ctx context.Context, token, chatID, text string) (*domain.ChatMessage, error) {
	chatID = strings.TrimSpace(chatID)
	text = strings.TrimSpace(text)
	if chatID == "" || text == "" {
		return nil, fmt.Errorf("chat id and message are required: %w", domain.ErrInvalidInput)
	}
	email, err := s.verifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	msg := domain.ChatMessage{
		Action:   domain.ChatActionSend,
		ChatID:   chatID,
		Message:  text,
		SentFrom: email,
	}
	if err := s.client.Send(ctx, token, msg); err != nil {
		return nil, fmt.Errorf("send chat message: %w", err)
	}
	return &msg, nil
}

func (s *chatService) Listen(ctx context.Context, token string, handle func(domain.ChatMessage)) error {
	if _, err := s.verifier.Verify(token); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return s.client.Listen(ctx, token, handle)
}
