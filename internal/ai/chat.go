package ai

import (
	"context"
	"strings"
	"sync"
)

// ChatSession is one conversation with the model. The caller owns it; the history lives
// only as long as the session value.
type ChatSession struct {
	mu       sync.Mutex
	gen      Generator
	system   string
	document *Attachment
	history  []Message
}

func NewChatSession(gen Generator, system string) *ChatSession {
	return &ChatSession{gen: gen, system: system}
}

// AttachDocument grounds every turn of the session on doc.
func (c *ChatSession) AttachDocument(doc Attachment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.document = &doc
}

// Send appends text as a user turn and returns the model's reply. A failed turn leaves the
// history unchanged.
func (c *ChatSession) Send(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := Request{
		System:  c.system,
		Prompt:  text,
		History: append([]Message(nil), c.history...),
	}
	if c.document != nil {
		req.Attachments = []Attachment{*c.document}
	}
	reply, err := c.gen.GenerateText(ctx, req)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	c.history = append(c.history,
		Message{Role: RoleUser, Text: text},
		Message{Role: RoleModel, Text: reply},
	)
	return reply, nil
}

// History returns a copy of the turns so far.
func (c *ChatSession) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.history...)
}

// Restore replaces the history, for resuming a saved conversation.
func (c *ChatSession) Restore(history []Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append([]Message(nil), history...)
}

func (c *ChatSession) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}
