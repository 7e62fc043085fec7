// Package transport defines the chat-transport contract the delivery engine
// consumes. The engine only ever needs to receive command messages and send
// formatted text; everything Telegram-specific stays inside the adapter.
package transport

import "context"

// Message is one incoming chat message.
type Message struct {
	ID           int
	ChatID       int64
	FromID       int64
	FromUsername string
	Text         string
	IsGroup      bool
}

// ChatTarget identifies a delivery destination.
type ChatTarget struct {
	ChatID int64
}

// SendOptions control message formatting on send.
type SendOptions struct {
	ParseMode      string // "HTML" for rendered opportunity messages
	DisablePreview bool
}

// Adapter is the minimal chat transport surface.
//
// SendText must only return nil once the transport has confirmed the send;
// the posting executor relies on that to order write-backs after sends.
type Adapter interface {
	Start(ctx context.Context, out chan<- Message) error
	Stop(ctx context.Context) error

	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) error
}
