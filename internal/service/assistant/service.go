package assistant

import (
	"errors"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/omniinfra/platform/internal/domain"
)

// ErrEmptyMessage rejects blank chat input.
var ErrEmptyMessage = errors.New("message is required")

// session is one project's conversation for the life of the process.
type session struct {
	conversationID string
	messages       []domain.ChatMessage
}

// Service owns per-project chat sessions. Conversations are never
// persisted; a restart or Clear wipes them.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs a Service.
func New(logger *slog.Logger) *Service {
	return &Service{
		sessions: make(map[string]*session),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Send records the user turn, runs the responder, records the assistant
// turn, and returns it with the session's conversation ID.
func (s *Service) Send(projectID, message string) (domain.ChatMessage, string, error) {
	if strings.TrimSpace(message) == "" {
		return domain.ChatMessage{}, "", ErrEmptyMessage
	}
	reply := Respond(message)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[projectID]
	if !ok {
		sess = &session{conversationID: uuid.NewString()}
		s.sessions[projectID] = sess
	}
	sess.messages = append(sess.messages, domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Text:      message,
		Timestamp: now,
	})
	assistant := domain.ChatMessage{
		ID:          uuid.NewString(),
		Role:        domain.RoleAssistant,
		Text:        reply.Text,
		Timestamp:   now,
		Suggestions: reply.Suggestions,
		ActionItems: reply.ActionItems,
	}
	sess.messages = append(sess.messages, assistant)
	if s.logger != nil {
		s.logger.Info("chat turn recorded", "project_id", projectID, "conversation_id", sess.conversationID)
	}
	return assistant, sess.conversationID, nil
}

// History returns a copy of the session's ordered message list.
func (s *Service) History(projectID string) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[projectID]
	if !ok {
		return nil
	}
	return append([]domain.ChatMessage(nil), sess.messages...)
}

// Clear drops the project's conversation wholesale.
func (s *Service) Clear(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, projectID)
	if s.logger != nil {
		s.logger.Info("chat history cleared", "project_id", projectID)
	}
}
