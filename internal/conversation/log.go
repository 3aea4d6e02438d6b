package conversation

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one committed transcript entry. It is immutable once appended:
// later capability results never touch the text or attached fields captured
// at commit time.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time

	// Capability outputs frozen at the moment the user committed.
	DetectedLanguage string
	Summary          string
}

// Log is the append-only ordered message sequence for one session. Insertion
// order is display order; entries are never reordered or deleted.
type Log struct {
	messages []Message
}

func NewLog() *Log {
	return &Log{}
}

// Append stamps the message with an ID and timestamp and stores it.
func (l *Log) Append(m Message) Message {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	l.messages = append(l.messages, m)
	return m
}

// Messages returns a copy of the log in display order.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *Log) Len() int {
	return len(l.messages)
}
