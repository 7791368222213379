package controller

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/infrastructure/config"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// SchedulerController resolves the configured owner on a cron schedule
// evaluated in the owner's timezone
type SchedulerController struct {
	catchUp usecase.CatchUpService
	config  *config.AppConfig
	loc     *time.Location
	now     func() time.Time
	logger  domain.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	pidFile string
	lastRun *usecase.ResolveOwnerResult
}

// NewSchedulerController creates a new scheduler controller. now supplies
// the reference instant of every pass.
func NewSchedulerController(
	catchUp usecase.CatchUpService,
	cfg *config.AppConfig,
	loc *time.Location,
	now func() time.Time,
	logger domain.Logger,
) *SchedulerController {
	if loc == nil {
		loc = time.UTC
	}
	return &SchedulerController{
		catchUp: catchUp,
		config:  cfg,
		loc:     loc,
		now:     now,
		logger:  logger,
	}
}

// RunOnce resolves every habit of the configured owner
func (c *SchedulerController) RunOnce(ctx context.Context) (*usecase.ResolveOwnerResult, error) {
	started := time.Now()
	res, err := c.catchUp.ResolveOwner(ctx, c.config.OwnerID, c.config.Timezone, c.now())
	if err != nil {
		c.logger.Error(ctx, "Scheduled resolution failed",
			domain.NewField("owner_id", c.config.OwnerID),
			domain.ErrorField(err))
		return nil, err
	}

	c.mu.Lock()
	c.lastRun = res
	c.mu.Unlock()

	c.logger.Debug(ctx, "Scheduled resolution finished",
		domain.NewField("owner_id", res.OwnerID),
		domain.NewField("duration_ms", time.Since(started).Milliseconds()))
	return res, nil
}

// Start registers the resolution job and starts the cron runner
func (c *SchedulerController) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron != nil {
		return fmt.Errorf("scheduler already started")
	}
	if c.config.Scheduler == nil || !c.config.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled")
	}

	logger := cronLogger{logger: c.logger}
	runner := cron.New(
		cron.WithLocation(c.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	entry, err := runner.AddFunc(c.config.Scheduler.Cron, func() {
		_, _ = c.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid scheduler cron spec %q: %w", c.config.Scheduler.Cron, err)
	}

	if err := c.writePIDFile(); err != nil {
		return err
	}

	runner.Start()
	c.cron = runner
	c.entry = entry

	c.logger.Info(context.Background(), "Scheduler started",
		domain.NewField("cron", c.config.Scheduler.Cron),
		domain.NewField("timezone", c.loc.String()),
		domain.NewField("next_run", runner.Entry(entry).Schedule.Next(time.Now().In(c.loc)).Format(time.RFC3339)))
	return nil
}

// Stop waits for a running pass to finish and stops the cron runner
func (c *SchedulerController) Stop() error {
	c.mu.Lock()
	runner := c.cron
	c.cron = nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}
	<-runner.Stop().Done()

	if err := c.removePIDFile(); err != nil {
		c.logger.Error(context.Background(), "Failed to remove PID file", domain.ErrorField(err))
	}
	c.logger.Info(context.Background(), "Scheduler stopped")
	return nil
}

// Run does one pass immediately, then keeps the schedule until ctx is done
func (c *SchedulerController) Run(ctx context.Context) error {
	if err := c.Start(); err != nil {
		return err
	}
	if _, err := c.RunOnce(ctx); err != nil && ctx.Err() == nil {
		c.logger.Warn(ctx, "Initial resolution failed, waiting for the next run", domain.ErrorField(err))
	}

	<-ctx.Done()
	return c.Stop()
}

// NextRun returns the next scheduled pass, or the zero time when stopped
func (c *SchedulerController) NextRun() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron == nil {
		return time.Time{}
	}
	entry := c.cron.Entry(c.entry)
	if entry.Next.IsZero() {
		return entry.Schedule.Next(time.Now().In(c.loc))
	}
	return entry.Next
}

// LastRun returns the result of the most recent successful pass
func (c *SchedulerController) LastRun() *usecase.ResolveOwnerResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRun
}

func (c *SchedulerController) writePIDFile() error {
	if c.config.Scheduler.PidFile == "" {
		return nil
	}
	path := config.ExpandPath(c.config.Scheduler.PidFile)
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	c.pidFile = path
	return nil
}

func (c *SchedulerController) removePIDFile() error {
	if c.pidFile == "" {
		return nil
	}
	if err := os.Remove(c.pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	c.pidFile = ""
	return nil
}

// cronLogger adapts domain.Logger to cron.Logger
type cronLogger struct {
	logger domain.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(context.Background(), "cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := append(kvFields(keysAndValues), domain.ErrorField(err))
	l.logger.Error(context.Background(), "cron: "+msg, fields...)
}

func kvFields(keysAndValues []interface{}) []domain.Field {
	fields := make([]domain.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, domain.NewField(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}
