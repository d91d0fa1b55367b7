package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"storefront/client/internal/domain"
	"storefront/client/internal/gateway"

	log "github.com/sirupsen/logrus"
)

// FallbackReply is appended as the assistant turn when the remote call
// fails, so the conversation stays consistent under transport failure.
const FallbackReply = "Sorry, I'm having trouble answering right now. Please try again in a moment."

var (
	// ErrEmptyMessage means the message was blank after trimming.
	ErrEmptyMessage = errors.New("chat: empty message")
	// ErrBusy means a reply is already pending; the message is dropped,
	// not queued.
	ErrBusy = errors.New("chat: a reply is already pending")
)

// Session holds the ordered conversation transcript and enforces
// single-flight semantics: at most one outstanding assistant request.
type Session struct {
	client gateway.StorefrontClient

	mu         sync.Mutex
	transcript []domain.ChatTurn
	pending    bool
}

func NewSession(client gateway.StorefrontClient) *Session {
	return &Session{client: client}
}

// Send appends the user's turn immediately, asks the assistant for a
// reply, and appends either the reply or the fallback text. A remote
// failure is absorbed into the transcript and never returned; the only
// errors are the two no-op rejections.
func (s *Session) Send(ctx context.Context, message, sessionID string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrBusy
	}
	s.pending = true
	s.transcript = append(s.transcript, domain.ChatTurn{Role: domain.RoleUser, Content: message})
	s.mu.Unlock()

	reply, err := s.client.PostChatTurn(ctx, message, sessionID)
	if err != nil {
		log.Warnf("Assistant request failed, answering with fallback: %v", err)
		reply = FallbackReply
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, domain.ChatTurn{Role: domain.RoleAssistant, Content: reply})
	s.pending = false
	s.mu.Unlock()
	return nil
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []domain.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatTurn(nil), s.transcript...)
}

// Pending reports whether an assistant reply is outstanding.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
