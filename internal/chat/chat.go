package chat

import "time"

// PublicChat is the message type kept when the public-only filter is on.
const PublicChat = "PUBLICCHAT"

// FileLayout names a saved chat document after the time it was written.
const FileLayout = "2006-01-02-15:04:05"

type Message struct {
	Name      string `json:"name"`
	Sender    string `json:"sender"`
	Timestamp int    `json:"timestamp"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	World     int    `json:"world"`
}

// Buffer collects chat messages in arrival order. It is owned by the
// session loop and not safe for concurrent use.
type Buffer struct {
	publicOnly bool
	messages   []Message
}

func NewBuffer(publicOnly bool) *Buffer {
	return &Buffer{publicOnly: publicOnly}
}

// Add reports whether the message was kept.
func (b *Buffer) Add(m Message) bool {
	if b.publicOnly && m.Type != PublicChat {
		return false
	}
	b.messages = append(b.messages, m)
	return true
}

func (b *Buffer) Messages() []Message {
	return append([]Message{}, b.messages...)
}

func (b *Buffer) Len() int { return len(b.messages) }

func (b *Buffer) Clear() { b.messages = nil }

func FileName(at time.Time) string {
	return at.Format(FileLayout) + ".json"
}
