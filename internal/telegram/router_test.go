package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kyr04i/depressing/internal/journal"
	"github.com/kyr04i/depressing/internal/store"
)

type fakeBot struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		t.Fatal("no message sent")
	}
	return b.sent[len(b.sent)-1]
}

type stubJournal struct {
	journal.Nop
	entries []journal.Entry
	err     error
}

func (j stubJournal) RecentForChat(context.Context, int64, int) ([]journal.Entry, error) {
	return j.entries, j.err
}

func update(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}}
}

func newTestRouter(j journal.Journal) (*Router, *fakeBot, *store.Memory) {
	bot := &fakeBot{}
	repo := store.NewMemory()
	return NewRouter(bot, zap.NewNop(), repo, j, time.UTC), bot, repo
}

func TestSetAndView(t *testing.T) {
	r, bot, repo := newTestRouter(nil)
	ctx := context.Background()

	r.HandleUpdate(ctx, update(42, "/set demo 2024-01-01 10:00 5 daily"))
	if got := bot.last(t).Text; got != "Deadline 'demo' set successfully!" {
		t.Fatalf("reply = %q", got)
	}

	d, ok := repo.Get("demo")
	if !ok {
		t.Fatal("deadline not stored")
	}
	if !d.ActivateAt.Equal(time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)) || d.Duration != 5*time.Minute {
		t.Fatalf("stored = %+v", d)
	}
	if len(d.Subscribers) != 1 || d.Subscribers[0] != 42 {
		t.Fatalf("subscribers = %v", d.Subscribers)
	}

	r.HandleUpdate(ctx, update(42, "/view"))
	want := "Name: demo\nDate & Time: 2024-01-01 10:00\nDuration: 5 minutes\nFrequency: daily\nChat IDs: [42]"
	if got := bot.last(t).Text; got != want {
		t.Fatalf("view = %q, want %q", got, want)
	}
	if bot.last(t).ChatID != 42 {
		t.Fatalf("reply sent to %d", bot.last(t).ChatID)
	}
}

func TestSetReplacesSubscribers(t *testing.T) {
	r, _, repo := newTestRouter(nil)
	ctx := context.Background()

	r.HandleUpdate(ctx, update(1, "/set demo 2024-01-01 10:00 5 once"))
	r.HandleUpdate(ctx, update(2, "/set demo 2024-01-02 11:00 10 once"))

	d, _ := repo.Get("demo")
	if len(d.Subscribers) != 1 || d.Subscribers[0] != 2 {
		t.Fatalf("subscribers = %v, want [2]", d.Subscribers)
	}
	if repo.Len() != 1 {
		t.Fatalf("len = %d", repo.Len())
	}
}

func TestSetValidation(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/set demo 2024-01-01 10:00 5", want: setUsageText},
		{text: "/set demo 01/01/2024 10:00 5 once", want: setBadDateTimeText},
		{text: "/set demo 2024-01-01 10:00 five once", want: setBadDurationText},
		{text: "/set demo 2024-01-01 10:00 -1 once", want: setNegativeDurText},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r, bot, repo := newTestRouter(nil)
			r.HandleUpdate(context.Background(), update(1, tt.text))
			if got := bot.last(t).Text; got != tt.want {
				t.Fatalf("reply = %q, want %q", got, tt.want)
			}
			if repo.Len() != 0 {
				t.Fatal("invalid command reached the store")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	r, bot, repo := newTestRouter(nil)
	ctx := context.Background()

	r.HandleUpdate(ctx, update(1, "/delete demo"))
	if got := bot.last(t).Text; got != "Deadline 'demo' not found." {
		t.Fatalf("reply = %q", got)
	}

	r.HandleUpdate(ctx, update(1, "/set demo 2024-01-01 10:00 5 once"))
	r.HandleUpdate(ctx, update(1, "/delete demo"))
	if got := bot.last(t).Text; got != "Deadline 'demo' deleted successfully!" {
		t.Fatalf("reply = %q", got)
	}
	if repo.Len() != 0 {
		t.Fatal("deadline still stored")
	}

	r.HandleUpdate(ctx, update(1, "/delete"))
	if got := bot.last(t).Text; got != deleteUsageText {
		t.Fatalf("reply = %q", got)
	}
}

func TestViewEmptyAndMisc(t *testing.T) {
	r, bot, _ := newTestRouter(nil)
	ctx := context.Background()

	r.HandleUpdate(ctx, update(1, "/view"))
	if got := bot.last(t).Text; got != viewEmptyText {
		t.Fatalf("view = %q", got)
	}
	r.HandleUpdate(ctx, update(77, "/myid@deadline_bot"))
	if got := bot.last(t).Text; got != "Your Chat ID is: 77" {
		t.Fatalf("myid = %q", got)
	}
	r.HandleUpdate(ctx, update(1, "/help"))
	if got := bot.last(t).Text; !strings.Contains(got, "/set <name>") {
		t.Fatalf("help = %q", got)
	}
	r.HandleUpdate(ctx, update(1, "/nope"))
	if got := bot.last(t).Text; got != unknownCommandText {
		t.Fatalf("unknown = %q", got)
	}

	before := len(bot.sent)
	r.HandleUpdate(ctx, update(1, "just chatting"))
	r.HandleUpdate(ctx, tgbotapi.Update{})
	if len(bot.sent) != before {
		t.Fatal("non-command text must be ignored")
	}
}

func TestHistory(t *testing.T) {
	at := time.Date(2024, time.January, 1, 10, 3, 0, 0, time.UTC)
	j := stubJournal{entries: []journal.Entry{
		{Deadline: "demo", ChatID: 1, OK: true, SentAt: at},
		{Deadline: "demo", ChatID: 1, OK: false, Error: "timeout", SentAt: at.Add(-time.Minute)},
	}}
	r, bot, _ := newTestRouter(j)

	r.HandleUpdate(context.Background(), update(1, "/history"))
	got := bot.last(t).Text
	if !strings.Contains(got, "2024-01-01 10:03  demo ✅") || !strings.Contains(got, "❌ timeout") {
		t.Fatalf("history = %q", got)
	}

	r, bot, _ = newTestRouter(stubJournal{err: errors.New("disk I/O error")})
	r.HandleUpdate(context.Background(), update(1, "/history"))
	if got := bot.last(t).Text; got != historyUnavailText {
		t.Fatalf("history error reply = %q", got)
	}

	r, bot, _ = newTestRouter(nil)
	r.HandleUpdate(context.Background(), update(1, "/history"))
	if got := bot.last(t).Text; got != historyEmptyText {
		t.Fatalf("history empty reply = %q", got)
	}
}

func TestSendMessage(t *testing.T) {
	r, bot, _ := newTestRouter(nil)
	if err := r.SendMessage(9, "Reminder: Deadline 'demo' is due!"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if m := bot.last(t); m.ChatID != 9 || m.Text != "Reminder: Deadline 'demo' is due!" {
		t.Fatalf("sent = %+v", m)
	}
}
