package domain

import "context"

// ChatMessage is a message on the chat socket.
// swagger:model ChatMessage
type ChatMessage struct {
	Action   string `json:"action,omitempty"`
	ChatID   string `json:"chat_id"`
	Message  string `json:"message"`
	SentFrom string `json:"sent_from"`
}

// ChatActionSend is the action name the chat socket routes outgoing messages on.
const ChatActionSend = "sendmessage"

// ChatClient talks to the chat WebSocket endpoint.
type ChatClient interface {
	Send(ctx context.Context, token string, msg ChatMessage) error
	// Listen delivers broadcast messages to handle until ctx is done or the socket closes.
	Listen(ctx context.Context, token string, handle func(ChatMessage)) error
}

// ChatService sends chat messages on behalf of the logged-in user.
type ChatService interface {
	Send(ctx context.Context, token, chatID, text string) (*ChatMessage, error)
	Listen(ctx context.Context, token string, handle func(ChatMessage)) error
}
