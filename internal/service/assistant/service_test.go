package assistant

import (
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/omniinfra/platform/internal/domain"
)

func newTestService() *Service {
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	return svc
}

func TestSendRecordsTurnPair(t *testing.T) {
	svc := newTestService()
	reply, conversationID, err := svc.Send("proj-1", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if conversationID == "" {
		t.Fatal("empty conversation id")
	}
	if reply.Role != domain.RoleAssistant {
		t.Fatalf("role = %s", reply.Role)
	}
	history := svc.History("proj-1")
	if len(history) != 2 {
		t.Fatalf("history = %d messages, want 2", len(history))
	}
	if history[0].Role != domain.RoleUser || history[0].Text != "hello" {
		t.Fatalf("user turn = %+v", history[0])
	}
	if history[1].ID != reply.ID {
		t.Fatal("assistant turn not appended")
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	svc := newTestService()
	if _, _, err := svc.Send("proj-1", "   "); err != ErrEmptyMessage {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if len(svc.History("proj-1")) != 0 {
		t.Fatal("rejected message should not be recorded")
	}
}

func TestConversationIDStableWithinSession(t *testing.T) {
	svc := newTestService()
	_, first, _ := svc.Send("proj-1", "hello")
	_, second, _ := svc.Send("proj-1", "deploy please")
	if first != second {
		t.Fatalf("conversation id changed: %s -> %s", first, second)
	}
	_, other, _ := svc.Send("proj-2", "hello")
	if other == first {
		t.Fatal("projects share a conversation id")
	}
}

func TestClearWipesSession(t *testing.T) {
	svc := newTestService()
	_, before, _ := svc.Send("proj-1", "hello")
	svc.Clear("proj-1")
	if len(svc.History("proj-1")) != 0 {
		t.Fatal("history survived clear")
	}
	_, after, _ := svc.Send("proj-1", "hello again")
	if after == before {
		t.Fatal("conversation id survived clear")
	}
}
