package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kyr04i/depressing/internal/journal"
	"github.com/kyr04i/depressing/internal/store"
)

// botAPI is the part of *tgbotapi.BotAPI the router uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Router wires Telegram updates to command handlers.
type Router struct {
	bot     botAPI
	log     *zap.Logger
	repo    store.Repo
	journal journal.Journal
	loc     *time.Location
}

// NewRouter creates a new Telegram router. Dates in /set are read in loc
// (time.Local when nil).
func NewRouter(bot botAPI, log *zap.Logger, repo store.Repo, j journal.Journal, loc *time.Location) *Router {
	if j == nil {
		j = journal.Nop{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Router{
		bot:     bot,
		log:     log,
		repo:    repo,
		journal: j,
		loc:     loc,
	}
}

// HandleUpdate routes a single update to the matching command handler.
// It is safe to call from several goroutines at once.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	msg := upd.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	cmd, ok := commandOf(text)
	if !ok {
		return
	}

	switch cmd {
	case "help", "start":
		r.handleHelp(chatID)
	case "set":
		r.handleSet(chatID, text)
	case "view":
		r.handleView(chatID)
	case "delete":
		r.handleDelete(chatID, text)
	case "myid":
		r.handleMyID(chatID)
	case "history":
		r.handleHistory(ctx, chatID)
	default:
		r.sendText(chatID, unknownCommandText)
	}
}

// commandOf extracts "set" from "/set@deadline_bot foo bar".
func commandOf(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	first := strings.Fields(text)[0]
	first = strings.TrimPrefix(first, "/")
	if i := strings.IndexByte(first, '@'); i >= 0 {
		first = first[:i]
	}
	return strings.ToLower(first), first != ""
}

// SendMessage sends a plain text message to the given chat.
// This makes Router satisfy notify.MessageSender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (r *Router) sendText(chatID int64, text string) {
	if err := r.SendMessage(chatID, text); err != nil {
		r.log.Warn("reply failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}
