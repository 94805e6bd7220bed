// path: src/session.go
package src

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MessageStatus tracks a chat entry's lifecycle.
type MessageStatus string

const (
	StatusThinking   MessageStatus = "thinking"
	StatusProcessing MessageStatus = "processing"
	StatusComplete   MessageStatus = "complete"
	StatusError      MessageStatus = "error"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
	SenderSystem    = "system"
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	ID        string
	Sender    string
	Content   string
	Status    MessageStatus
	Timestamp time.Time
}

// NewChatMessage stamps a fresh message with a unique id and the current
// time.
func NewChatMessage(sender, content string, status MessageStatus) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Status:    status,
		Timestamp: time.Now(),
	}
}

// Transcript is the append-only chat history. The only in-place mutation
// allowed is resolving a loading placeholder into its final message.
type Transcript struct {
	mu       sync.Mutex
	messages []ChatMessage
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message and returns its id.
func (t *Transcript) Append(msg ChatMessage) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return msg.ID
}

// ReplaceLoading resolves the placeholder with the given id into content
// and status. Returns false when no message with that id exists.
func (t *Transcript) ReplaceLoading(id, content string, status MessageStatus) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages[i].Content = content
			t.messages[i].Status = status
			return true
		}
	}
	return false
}

// Messages returns a copy of the history.
func (t *Transcript) Messages() []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len reports the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// RequestTracker hands out generation request ids and accepts only the
// most recent one, so a slow completion for an abandoned prompt can never
// overwrite newer results.
type RequestTracker struct {
	mu     sync.Mutex
	latest string
}

func NewRequestTracker() *RequestTracker {
	return &RequestTracker{}
}

// Begin registers a new request and returns its id. Any previously issued
// id becomes stale.
func (r *RequestTracker) Begin() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = uuid.NewString()
	return r.latest
}

// Accept reports whether id is still the current request.
func (r *RequestTracker) Accept(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return id != "" && id == r.latest
}
