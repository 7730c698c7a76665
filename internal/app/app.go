package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kyr04i/depressing/internal/config"
	"github.com/kyr04i/depressing/internal/httpapi"
	"github.com/kyr04i/depressing/internal/journal"
	"github.com/kyr04i/depressing/internal/metrics"
	"github.com/kyr04i/depressing/internal/notify"
	"github.com/kyr04i/depressing/internal/scheduler"
	"github.com/kyr04i/depressing/internal/store"
	"github.com/kyr04i/depressing/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	poller  *tgbotapi.BotAPI // long polling, no client timeout
	sender  *tgbotapi.BotAPI // replies and reminders, bounded by DeliveryTimeout
	httpSrv *http.Server
	repo    *store.Memory
	metrics *metrics.Metrics
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	poller, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	poller.Debug = false

	sender, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint,
		&http.Client{Timeout: cfg.DeliveryTimeout})
	if err != nil {
		return nil, err
	}

	repo := store.NewMemory()
	m := metrics.New()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(repo, m.Handler(), log),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{
		cfg:     cfg,
		log:     log,
		poller:  poller,
		sender:  sender,
		httpSrv: srv,
		repo:    repo,
		metrics: m,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting deadline-bot",
		zap.String("bot", a.poller.Self.UserName),
		zap.String("http", a.cfg.HTTPAddr),
		zap.Duration("scanInterval", a.cfg.ScanInterval),
	)

	j, err := a.openJournal(ctx)
	if err != nil {
		a.log.Error("open journal failed", zap.Error(err))
		return err
	}
	defer func() { _ = j.Close() }()

	router := telegram.NewRouter(a.sender, a.log, a.repo, j, time.Local)
	sched := scheduler.New(a.repo, a.log,
		notify.NewLimited(router, a.cfg.DeliveryRPS, a.cfg.DeliveryTimeout),
		a.metrics,
		scheduler.WithInterval(a.cfg.ScanInterval),
		scheduler.WithJournal(j),
		scheduler.WithRetention(a.cfg.JournalRetention),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	var schedDone sync.WaitGroup
	schedDone.Add(1)
	go func() {
		defer schedDone.Done()
		sched.Run(ctx)
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.poller.GetUpdatesChan(u)

	var handlers sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.poller.StopReceivingUpdates()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}

			handlers.Wait()
			schedDone.Wait()
			return nil

		case upd := <-updCh:
			handlers.Add(1)
			go func() {
				defer handlers.Done()
				router.HandleUpdate(ctx, upd)
			}()
		}
	}
}

func (a *App) openJournal(ctx context.Context) (journal.Journal, error) {
	if a.cfg.DBPath == "" {
		a.log.Info("delivery journal disabled")
		return journal.Nop{}, nil
	}
	j, err := journal.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.log.Info("delivery journal ready", zap.String("path", a.cfg.DBPath))
	return j, nil
}
