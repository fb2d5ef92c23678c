package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/inmobiliaria/storefront/internal/metrics"
	"github.com/inmobiliaria/storefront/internal/models"
)

const welcomeMessageID = "assistant-initial-welcome"

// AddChatMessage appends m to the conversation, filling in a missing id or timestamp
func (s *Store) AddChatMessage(m models.ChatMessage) {
	m = m.Clone()
	if m.ID == "" {
		m.ID = s.nextID(m.Type)
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = s.now()
	}
	s.update(func(st *State) { st.ChatMessages = append(st.ChatMessages, m) })
}

// InitializeChat starts an empty conversation: a typing placeholder is shown at once
// and replaced by the configured greeting after the typing delay. It does nothing when
// the conversation already has messages.
func (s *Store) InitializeChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.state.ChatMessages) > 0 {
		return
	}

	typingID := s.nextID("assistant-typing")
	s.state.ChatMessages = append(s.state.ChatMessages, s.typingMessage(typingID))

	s.cancelGreetingLocked()
	gen := s.greetGen
	s.greetTimer = time.AfterFunc(s.typingDelay, func() { s.greet(gen, typingID) })
	s.notifyLocked()
}

func (s *Store) greet(gen uint64, typingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.greetGen {
		return
	}
	s.greetTimer = nil

	msgs := removeMessage(s.state.ChatMessages, typingID)
	s.state.ChatMessages = append(msgs, models.ChatMessage{
		ID:        welcomeMessageID,
		Type:      models.RoleAssistant,
		Content:   s.state.Config.InitialChatMessage,
		Timestamp: s.now(),
	})
	s.notifyLocked()
}

// cancelGreetingLocked stops a pending greeting; callers hold s.mu
func (s *Store) cancelGreetingLocked() {
	s.greetGen++
	if s.greetTimer != nil {
		s.greetTimer.Stop()
		s.greetTimer = nil
	}
}

// ClearChat empties the conversation and cancels a pending greeting
func (s *Store) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelGreetingLocked()
	s.state.ChatMessages = []models.ChatMessage{}
	s.notifyLocked()
}

// SendMessage runs one chat turn and blocks until the reply is in the conversation.
// It returns false without changing anything when another send is in flight or text
// is blank.
func (s *Store) SendMessage(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	if s.state.IsSendingMessage {
		s.mu.Unlock()
		metrics.ChatSendDropped()
		s.log.Debug().Msg("chat send dropped, another send is in flight")
		return false
	}
	s.state.IsSendingMessage = true
	s.state.IsLoading = true

	typingID := s.nextID("assistant-typing")
	s.state.ChatMessages = append(s.state.ChatMessages,
		models.ChatMessage{
			ID:        s.nextID("user"),
			Type:      models.RoleUser,
			Content:   text,
			Timestamp: s.now(),
		},
		s.typingMessage(typingID),
	)
	webhook := s.state.Config.WebhookURL
	session := s.state.ChatSessionID
	s.notifyLocked()
	s.mu.Unlock()

	callCtx, cancel := s.callContext(ctx)
	resp, err := s.deps.Chat.Send(callCtx, webhook, text, session)
	cancel()
	metrics.ObserveGateway(metrics.GatewayChat, err)

	var replies []models.ChatMessage
	switch {
	case err != nil:
		s.log.Error().Err(err).Str("session", session).Msg("chat send failed")
		replies = append(replies, s.assistantMessage("error", MsgChatFailed))
	case resp == nil:
		replies = append(replies, s.assistantMessage("assistant-empty", MsgChatEmpty))
	default:
		if resp.Text != "" {
			replies = append(replies, s.assistantMessage("assistant-text", resp.Text))
		}
		if len(resp.Properties) > 0 {
			m := s.assistantMessage("assistant-props", "")
			m.Properties = slices.Clone(resp.Properties)
			replies = append(replies, m)
		}
		if len(replies) == 0 {
			replies = append(replies, s.assistantMessage("assistant-empty", MsgChatEmpty))
		}
	}

	s.update(func(st *State) {
		st.ChatMessages = append(removeMessage(st.ChatMessages, typingID), replies...)
		st.IsSendingMessage = false
		st.IsLoading = false
	})
	return true
}

// RequestVisit asks the assistant to schedule a visit for the property titled title.
// The chat is opened unless it is embedded and the property modal is closed.
func (s *Store) RequestVisit(ctx context.Context, title string) bool {
	s.update(func(st *State) {
		if !st.Config.IsEmbeddedChat() {
			st.IsChatOpen = true
		}
		st.SelectedProperty = nil
		st.IsPropertyModalOpen = false
	})
	msg := fmt.Sprintf("¡Hola! Estoy interesado en la propiedad \"%s\" y me gustaría agendar una visita.", title)
	return s.SendMessage(ctx, msg)
}

func (s *Store) typingMessage(id string) models.ChatMessage {
	return models.ChatMessage{
		ID:        id,
		Type:      models.RoleAssistant,
		Timestamp: s.now(),
		IsTyping:  true,
	}
}

func (s *Store) assistantMessage(prefix, content string) models.ChatMessage {
	return models.ChatMessage{
		ID:        s.nextID(prefix),
		Type:      models.RoleAssistant,
		Content:   content,
		Timestamp: s.now(),
	}
}

func removeMessage(msgs []models.ChatMessage, id string) []models.ChatMessage {
	return slices.DeleteFunc(msgs, func(m models.ChatMessage) bool { return m.ID == id })
}
