package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kyr04i/depressing/internal/domain"
	"github.com/kyr04i/depressing/internal/journal"
	"github.com/kyr04i/depressing/internal/metrics"
	"github.com/kyr04i/depressing/internal/store"
)

// DefaultInterval is the pause between the end of one scan and the start of the next.
const DefaultInterval = 60 * time.Second

// Sender delivers a text message to a chat.
// notify.Limited implements this on top of the Telegram router.
type Sender interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Report summarizes one scan cycle.
type Report struct {
	CycleID string
	At      time.Time
	Due     int // deadlines inside their window
	Sent    int
	Failed  int
}

// Scheduler periodically scans the registry and reminds subscribers of due deadlines.
type Scheduler struct {
	repo      store.Repo
	log       *zap.Logger
	sender    Sender
	journal   journal.Journal
	metrics   *metrics.Metrics
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

type Option func(*Scheduler)

// WithInterval overrides DefaultInterval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithJournal records every delivery attempt in j.
func WithJournal(j journal.Journal) Option {
	return func(s *Scheduler) { s.journal = j }
}

// WithRetention prunes journal entries older than d after each cycle. Zero disables pruning.
func WithRetention(d time.Duration) Option {
	return func(s *Scheduler) { s.retention = d }
}

func New(repo store.Repo, log *zap.Logger, sender Sender, m *metrics.Metrics, opts ...Option) *Scheduler {
	s := &Scheduler{
		repo:     repo,
		log:      log,
		sender:   sender,
		journal:  journal.Nop{},
		metrics:  m,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans immediately and then once per interval until ctx is canceled.
// The interval is measured from the end of a cycle, so cycles never overlap.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-timer.C:
			s.Scan(ctx)
			timer.Reset(s.interval)
		}
	}
}

type dueDeadline struct {
	name        string
	subscribers []int64
}

// Scan performs one cycle: judge every deadline against a single captured
// instant, then notify each subscriber of each due deadline once.
//
// A deadline is reminded on every cycle that falls inside its window, so a
// 5 minute window with a 60s interval produces about five reminders per
// subscriber. Deadlines are never removed automatically.
func (s *Scheduler) Scan(ctx context.Context) Report {
	started := time.Now()
	now := s.now()
	rep := Report{CycleID: uuid.NewString(), At: now}

	// The snapshot is a private copy; no store lock is held past this line.
	snapshot := s.repo.Snapshot()

	var due []dueDeadline
	for _, d := range snapshot {
		if d.DueAt(now) {
			due = append(due, dueDeadline{name: d.Name, subscribers: d.Subscribers})
		}
	}
	rep.Due = len(due)

	log := s.log.With(zap.String("cycle", rep.CycleID))
	if rep.Due > 0 {
		log.Debug("due deadlines found", zap.Int("due", rep.Due), zap.Int("total", len(snapshot)))
	}

deliver:
	for _, d := range due {
		text := domain.ReminderText(d.name)
		for _, chatID := range d.subscribers {
			if ctx.Err() != nil {
				log.Warn("scan interrupted", zap.Error(ctx.Err()))
				break deliver
			}
			err := s.sender.Notify(ctx, chatID, text)
			if err != nil {
				rep.Failed++
				log.Error("send failed", zap.Error(err),
					zap.String("deadline", d.name), zap.Int64("chatID", chatID))
			} else {
				rep.Sent++
			}
			s.record(ctx, rep.CycleID, d.name, chatID, err)
		}
	}

	s.prune(ctx, now)

	if s.metrics != nil {
		s.metrics.Scans.Inc()
		s.metrics.Due.Add(float64(rep.Due))
		s.metrics.Deliveries.WithLabelValues(metrics.ResultSent).Add(float64(rep.Sent))
		s.metrics.Deliveries.WithLabelValues(metrics.ResultFailed).Add(float64(rep.Failed))
		s.metrics.StoreSize.Set(float64(len(snapshot)))
		s.metrics.ScanDuration.Observe(time.Since(started).Seconds())
	}
	return rep
}

func (s *Scheduler) record(ctx context.Context, cycleID, name string, chatID int64, sendErr error) {
	e := journal.Entry{
		CycleID:  cycleID,
		Deadline: name,
		ChatID:   chatID,
		OK:       sendErr == nil,
		SentAt:   s.now(),
	}
	if sendErr != nil {
		e.Error = sendErr.Error()
	}
	if err := s.journal.Record(ctx, e); err != nil {
		s.log.Warn("journal record failed", zap.Error(err), zap.String("deadline", name))
	}
}

func (s *Scheduler) prune(ctx context.Context, now time.Time) {
	if s.retention <= 0 || ctx.Err() != nil {
		return
	}
	n, err := s.journal.Prune(ctx, now.Add(-s.retention))
	if err != nil {
		s.log.Warn("journal prune failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Debug("journal pruned", zap.Int64("rows", n))
	}
}
