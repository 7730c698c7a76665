package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kyr04i/depressing/internal/domain"
)

func (r *Router) handleHelp(chatID int64) {
	r.sendText(chatID, helpText)
}

func (r *Router) handleMyID(chatID int64) {
	r.sendText(chatID, fmt.Sprintf(myIDFmt, chatID))
}

// handleSet registers the deadline with this chat as its only subscriber,
// replacing any deadline with the same name.
func (r *Router) handleSet(chatID int64, text string) {
	args, err := domain.ParseSetCommand(text, r.loc)
	if err != nil {
		r.sendText(chatID, setErrorText(err))
		return
	}

	d, err := domain.New(args.Name, args.ActivateAt, args.Duration, args.Frequency, chatID)
	if err != nil {
		r.sendText(chatID, setErrorText(err))
		return
	}
	r.repo.Set(d)

	r.log.Info("deadline set",
		zap.String("name", d.Name),
		zap.Time("activateAt", d.ActivateAt),
		zap.Duration("duration", d.Duration),
		zap.Int64("chatID", chatID),
	)
	r.sendText(chatID, fmt.Sprintf(setOKFmt, d.Name))
}

func setErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDateTime):
		return setBadDateTimeText
	case errors.Is(err, domain.ErrNegativeDuration):
		return setNegativeDurText
	case errors.Is(err, domain.ErrInvalidDuration):
		return setBadDurationText
	default:
		return setUsageText
	}
}

func (r *Router) handleView(chatID int64) {
	deadlines := r.repo.Snapshot()
	if len(deadlines) == 0 {
		r.sendText(chatID, viewEmptyText)
		return
	}

	var b strings.Builder
	for _, d := range deadlines {
		fmt.Fprintf(&b, viewEntryFmt,
			d.Name,
			d.ActivateAt.Format(displayLayout),
			domain.FormatMinutes(d.Duration),
			d.Frequency,
			d.Subscribers,
		)
	}
	r.sendText(chatID, strings.TrimRight(b.String(), "\n"))
}

func (r *Router) handleDelete(chatID int64, text string) {
	name, err := domain.ParseDeleteCommand(text)
	if err != nil {
		r.sendText(chatID, deleteUsageText)
		return
	}
	if !r.repo.Delete(name) {
		r.sendText(chatID, fmt.Sprintf(deleteNotFoundFmt, name))
		return
	}
	r.log.Info("deadline deleted", zap.String("name", name), zap.Int64("chatID", chatID))
	r.sendText(chatID, fmt.Sprintf(deleteOKFmt, name))
}

func (r *Router) handleHistory(ctx context.Context, chatID int64) {
	entries, err := r.journal.RecentForChat(ctx, chatID, historyLimit)
	if err != nil {
		r.log.Error("RecentForChat failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, historyUnavailText)
		return
	}
	if len(entries) == 0 {
		r.sendText(chatID, historyEmptyText)
		return
	}

	var b strings.Builder
	b.WriteString(historyTitle)
	for _, e := range entries {
		at := e.SentAt.In(r.loc).Format(displayLayout)
		if e.OK {
			fmt.Fprintf(&b, historyEntryOKFmt, at, e.Deadline)
		} else {
			fmt.Fprintf(&b, historyEntryFailFmt, at, e.Deadline, e.Error)
		}
	}
	r.sendText(chatID, b.String())
}
