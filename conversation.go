package quorum

import (
	"sync"

	"github.com/google/uuid"
)

// Conversation holds an ordered, append-only message sequence shared by
// every backend in a dispatch. Each dispatch reads a snapshot copy, so the
// caller may keep appending between calls without racing in-flight queries.
//
// Conversations are safe for concurrent use by multiple goroutines.
type Conversation struct {
	id       string
	messages []Message
	mu       sync.RWMutex
}

// NewConversation creates an empty conversation with a unique ID.
func NewConversation() *Conversation {
	return &Conversation{
		id:       uuid.New().String(),
		messages: make([]Message, 0),
	}
}

// ID returns the unique identifier for this conversation.
func (c *Conversation) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Append adds a new message to the conversation.
// Role should be RoleSystem, RoleUser, or RoleAssistant; no validation is
// performed here — unknown roles surface as upstream errors.
func (c *Conversation) Append(role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, Message{
		Role:    role,
		Content: content,
	})
}

// System appends a system message.
func (c *Conversation) System(content string) {
	c.Append(RoleSystem, content)
}

// User appends a user message.
func (c *Conversation) User(content string) {
	c.Append(RoleUser, content)
}

// Assistant appends an assistant message.
func (c *Conversation) Assistant(content string) {
	c.Append(RoleAssistant, content)
}

// Messages returns a copy of all messages in the conversation.
// The returned slice is safe to share across branches and to modify without
// affecting the conversation.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)
	return messages
}

// Len returns the number of messages in the conversation.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Clear removes all messages from the conversation.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = make([]Message, 0)
}
