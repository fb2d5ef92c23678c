package models

import "time"

// Message authors
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of the conversation
type ChatMessage struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Content    string     `json:"content"`
	Timestamp  time.Time  `json:"timestamp"`
	Properties []Property `json:"properties,omitempty"`
	IsTyping   bool       `json:"isTyping,omitempty"`
}

// Clone returns a deep copy of the message
func (m ChatMessage) Clone() ChatMessage {
	out := m
	if m.Properties != nil {
		out.Properties = make([]Property, len(m.Properties))
		for i, p := range m.Properties {
			out.Properties[i] = p.Clone()
		}
	}
	return out
}
