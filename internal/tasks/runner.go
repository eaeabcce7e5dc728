package tasks

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sneaker_store_echo/internal/models"
	"sneaker_store_echo/internal/services"
)

const (
	runSuccess         = "success"
	runFailure         = "failure"
	runHandlerNotFound = "handler_not_found"

	defaultLockTTL = 10 * time.Minute

	DefaultInterval = 5 * time.Minute
)

// Runner executes due tasks. With a Locker set, each task is claimed with a
// short-lived key so that several workers never run the same task at once.
type Runner struct {
	store    TaskStore
	registry *Registry
	locker   services.Locker
	logger   *zap.Logger
	lockTTL  time.Duration
}

type RunnerOptions struct {
	Locker  services.Locker
	Logger  *zap.Logger
	LockTTL time.Duration
}

func NewRunner(store TaskStore, registry *Registry, opts RunnerOptions) *Runner {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}
	return &Runner{
		store:    store,
		registry: registry,
		locker:   opts.Locker,
		logger:   opts.Logger,
		lockTTL:  opts.LockTTL,
	}
}

// ProcessDue runs every active task due at or before now and returns how
// many were executed.
func (r *Runner) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := r.store.DueTasks(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("fetch due tasks: %w", err)
	}
	if len(due) == 0 {
		r.logger.Debug("no pending tasks")
		return 0, nil
	}
	r.logger.Info("found pending tasks", zap.Int("count", len(due)))

	ran := 0
	for _, task := range due {
		if ctx.Err() != nil {
			return ran, ctx.Err()
		}
		release, ok := r.claim(ctx, task)
		if !ok {
			continue
		}
		current, ok := r.stillDue(ctx, task.ID, now)
		if !ok {
			release()
			continue
		}
		r.execute(ctx, *current, now)
		release()
		ran++
	}
	return ran, nil
}

func (r *Runner) claim(ctx context.Context, task models.ScheduledTask) (func(), bool) {
	if r.locker == nil {
		return func() {}, true
	}
	key := fmt.Sprintf("task-lock:%d", task.ID)
	ok, err := r.locker.SetNX(ctx, key, task.TaskName, r.lockTTL)
	if err != nil {
		r.logger.Warn("claim task", zap.Uint("task_id", task.ID), zap.Error(err))
		return nil, false
	}
	if !ok {
		r.logger.Debug("task claimed by another worker", zap.Uint("task_id", task.ID))
		return nil, false
	}
	return func() {
		if err := r.locker.Delete(context.WithoutCancel(ctx), key); err != nil {
			r.logger.Warn("release task lock", zap.Uint("task_id", task.ID), zap.Error(err))
		}
	}, true
}

// stillDue re-reads a claimed task. The due list may be stale: another
// worker can have run the task between the fetch and the claim.
func (r *Runner) stillDue(ctx context.Context, id uint, now time.Time) (*models.ScheduledTask, bool) {
	task, err := r.store.Reload(ctx, id)
	if err != nil {
		r.logger.Warn("reload claimed task", zap.Uint("task_id", id), zap.Error(err))
		return nil, false
	}
	if task.Status != models.ScheduledTaskStatusActive || task.Due.After(now) {
		r.logger.Debug("task already handled", zap.Uint("task_id", id), zap.String("status", string(task.Status)))
		return nil, false
	}
	return task, true
}

func (r *Runner) execute(ctx context.Context, task models.ScheduledTask, now time.Time) {
	log := r.logger.With(zap.Uint("task_id", task.ID), zap.String("task", task.TaskName))

	if task.Arguments == nil {
		task.Arguments = make(map[string]interface{})
	}
	task.Arguments["max_attempt"] = task.MaxAttempt

	handler, found := r.registry.Get(task.TaskName)
	if !found {
		log.Error("task handler not found")
		r.record(ctx, task, now, 0, runHandlerNotFound, 1, map[string]interface{}{"error": "Handler not found"})
		r.update(ctx, task, map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		return
	}

	var err error
	startTime := now
	for attempt := 1; attempt <= task.Attempts(); attempt++ {
		startTime = time.Now()
		var result map[string]interface{}
		result, err = handler(ctx, task.Arguments)
		runtime := int(time.Since(startTime).Milliseconds())

		if err == nil {
			log.Info("task completed", zap.Int("attempt", attempt))
			r.record(ctx, task, startTime, runtime, runSuccess, attempt, result)
			break
		}
		log.Warn("task failed", zap.Int("attempt", attempt), zap.Error(err))
		r.record(ctx, task, startTime, runtime, runFailure, attempt, map[string]interface{}{"error": err.Error()})
		if ctx.Err() != nil {
			break
		}
	}

	updates := map[string]interface{}{"last_run": &startTime}
	switch {
	case err != nil:
		updates["status"] = models.ScheduledTaskStatusFailure
	case task.TaskType == models.ScheduledTaskTypeRecurring:
		if next, ok := task.NextDueAfter(now); ok {
			updates["status"] = models.ScheduledTaskStatusActive
			updates["due"] = next
		} else {
			updates["status"] = models.ScheduledTaskStatusDone
		}
	default:
		updates["status"] = models.ScheduledTaskStatusDone
	}
	r.update(ctx, task, updates)
}

func (r *Runner) record(ctx context.Context, task models.ScheduledTask, runAt time.Time, runtime int, status string, attempt int, result map[string]interface{}) {
	history := &models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           runAt,
		Runtime:         runtime,
		Status:          status,
		AttemptNumber:   attempt,
		Arguments:       task.Arguments,
		Result:          result,
	}
	if err := r.store.RecordRun(context.WithoutCancel(ctx), history); err != nil {
		r.logger.Error("record task history", zap.Uint("task_id", task.ID), zap.Error(err))
	}
}

func (r *Runner) update(ctx context.Context, task models.ScheduledTask, updates map[string]interface{}) {
	if err := r.store.UpdateTask(context.WithoutCancel(ctx), &task, updates); err != nil {
		r.logger.Error("update task", zap.Uint("task_id", task.ID), zap.Error(err))
	}
}

// Run calls ProcessDue immediately and then on every tick until ctx is done.
// A non-positive interval falls back to DefaultInterval.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		r.logger.Warn("invalid worker interval, using default", zap.Duration("interval", interval), zap.Duration("default", DefaultInterval))
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ticker.C:
			r.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if _, err := r.ProcessDue(ctx, time.Now()); err != nil && ctx.Err() == nil {
		r.logger.Error("process scheduled tasks", zap.Error(err))
	}
}
