package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs named background jobs on cron specs
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration
}

// cronLogger routes cron's own messages, recovered panics included, to zap
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

func NewScheduler(log *zap.Logger) *Scheduler {
	cl := cronLogger{log: log.Named("cron").Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		log:     log,
		timeout: time.Minute,
	}
}

// Register schedules fn under spec. Each run gets its own timeout.
func (s *Scheduler) Register(name, spec string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, fn)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.log.Info("Job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		s.log.Error("Job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Debug("Job finished", zap.String("job", name), zap.Duration("duration", time.Since(start)))
}

// Jobs returns the number of scheduled jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// TokenPurger removes expired and revoked refresh tokens
type TokenPurger interface {
	PurgeStaleTokens(ctx context.Context) (deleted, active int64, err error)
}

// TokenCleanup deletes stale refresh tokens
func TokenCleanup(p TokenPurger, log *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		deleted, active, err := p.PurgeStaleTokens(ctx)
		if err != nil {
			return err
		}
		log.Info("Refresh tokens purged",
			zap.Int64("deleted", deleted),
			zap.Int64("active", active))
		return nil
	}
}

// LimiterCleaner forgets idle rate limiter buckets
type LimiterCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// LimiterCleanup drops per-IP buckets idle for longer than maxIdle
func LimiterCleanup(l LimiterCleaner, maxIdle time.Duration, log *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if removed := l.Cleanup(maxIdle); removed > 0 {
			log.Debug("Rate limiter buckets dropped", zap.Int("removed", removed))
		}
		return nil
	}
}
