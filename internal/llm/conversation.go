package llm

import (
	"context"
	"slices"
)

// Conversation owns the ordered turn history for one session. The external
// service is stateless between calls, so each Send replays the full history
// ahead of the new message.
//
// A turn is committed to history only after the provider call succeeds. A
// failed Send leaves the history exactly as it was, so the same text can be
// retried without the model seeing a half-recorded exchange.
type Conversation struct {
	provider    Provider
	system      string
	history     []Message
	maxTokens   int
	temperature float64
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithMaxTokens sets the per-reply token limit.
func WithMaxTokens(n int) ConversationOption {
	return func(c *Conversation) { c.maxTokens = n }
}

// WithTemperature sets the sampling temperature for replies.
func WithTemperature(t float64) ConversationOption {
	return func(c *Conversation) { c.temperature = t }
}

// NewConversation starts an empty-history conversation against the provider.
func NewConversation(p Provider, system string, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		provider:  p,
		system:    system,
		maxTokens: 1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send delivers one user message in the context of the conversation so far
// and returns the model's reply. On success both the message and the reply
// are appended to the history; on failure the history is unchanged.
func (c *Conversation) Send(ctx context.Context, text string) (string, error) {
	msgs := make([]Message, 0, len(c.history)+1)
	msgs = append(msgs, c.history...)
	msgs = append(msgs, Message{Role: RoleUser, Content: text})

	resp, err := c.provider.Generate(ctx, Request{
		System:      c.system,
		Messages:    msgs,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	c.history = append(c.history,
		Message{Role: RoleUser, Content: text},
		Message{Role: RoleAssistant, Content: resp.Text},
	)
	return resp.Text, nil
}

// History returns a copy of the committed turns, oldest first.
func (c *Conversation) History() []Message {
	return slices.Clone(c.history)
}

// Len returns the number of committed turns.
func (c *Conversation) Len() int {
	return len(c.history)
}
