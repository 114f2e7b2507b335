package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"MetalBoard/internal/board"
	"MetalBoard/internal/freshness"
	"MetalBoard/internal/model"
	"MetalBoard/internal/notifier"
	"MetalBoard/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the board rebuild and freshness cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Builder  *board.Builder
	Tracker  *freshness.Tracker
	Source   string
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Location *time.Location
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. The notifier may be nil.
func NewScheduler(ctx context.Context, b *board.Builder, tr *freshness.Tracker, source string, tn *notifier.TelegramNotifier, rec recorder.Recorder, loc *time.Location) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Builder:  b,
		Tracker:  tr,
		Source:   source,
		Notifier: tn,
		Recorder: rec,
		Location: loc,
		Ctx:      ctx,
	}
	tr.OnDelayed(s.delayAlert)
	return s
}

// RegisterAll registers the board and freshness tasks.
func (s *Scheduler) RegisterAll(boardCron, freshnessCron string) error {
	if _, err := s.Cron.AddFunc(boardCron, s.boardTask); err != nil {
		return fmt.Errorf("register board task: %w", err)
	}
	if _, err := s.Cron.AddFunc(freshnessCron, s.freshnessTask); err != nil {
		return fmt.Errorf("register freshness task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and the countdown.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Tracker.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow builds the board and checks freshness immediately.
func (s *Scheduler) RunNow() {
	s.boardTask()
	s.freshnessTask()
}

func (s *Scheduler) boardTask() {
	log.Println("[INFO] running board task")
	if _, err := s.Builder.Build(s.Ctx); err != nil {
		log.Printf("[ERROR] board build: %v", err)
	}
}

func (s *Scheduler) freshnessTask() {
	log.Println("[INFO] running freshness task")
	status, err := s.Tracker.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] freshness: %v", err)
	}
	if err := s.Recorder.RecordFreshness(&recorder.FreshnessEvent{Status: status, Source: s.Source}); err != nil {
		log.Printf("[ERROR] record freshness: %v", err)
	}
	// The page reflects the new last/next times.
	if s.Builder.OutputPath != "" {
		if err := s.Builder.WritePage(s.Builder.OutputPath); err != nil {
			log.Printf("[ERROR] write page: %v", err)
		}
	}
}

func (s *Scheduler) delayAlert(status model.FreshnessStatus) {
	log.Printf("[WARN] workflow overdue since %s", freshness.FormatTime(status.NextRun, s.Location))
	if err := s.Recorder.RecordFreshness(&recorder.FreshnessEvent{Status: status, Source: s.Source}); err != nil {
		log.Printf("[ERROR] record freshness: %v", err)
	}
	if !s.Notifier.Enabled() {
		return
	}
	s.trySend(notifier.FormatDelayAlert(status, s.Location))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		return notifier.FormatStatus(s.Tracker.Status(), s.Location)
	case "/prices":
		return notifier.FormatPrices(s.Builder.Last())
	case "/refresh":
		s.RunNow()
		return notifier.FormatStatus(s.Tracker.Status(), s.Location)
	default:
		return "Commands:\n• /prices\n• /status\n• /refresh"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
