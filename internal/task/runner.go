package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrQueueFull is returned by Submit when the in-memory queue has no
// room for another task.
var ErrQueueFull = errors.New("task queue is full")

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// TaskRunner manages background task processing over an in-memory
// queue. Tasks here are regenerable from application state, so nothing
// is persisted: a lost task is made up for by the next one.
type TaskRunner struct {
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 2
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &TaskRunner{
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "task_runner")),
	}
	r.errHandler = func(task Task, err error) {
		r.logger.Error("task execution failed",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", err)
	}
	return r
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit adds a new task to the queue without blocking.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	select {
	case r.taskChan <- task:
		return nil
	default:
		return fmt.Errorf("submitting task %s: %w", task.Type(), ErrQueueFull)
	}
}

// Start launches the worker pool.
func (r *TaskRunner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop gracefully shuts down the task runner, waiting for in-flight
// tasks to finish. Queued tasks that have not started are dropped.
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	log := r.logger.With(slog.Int("worker_id", id))
	log.Debug("worker started")

	for {
		select {
		case <-r.ctx.Done():
			log.Debug("worker stopping")
			return
		case t := <-r.taskChan:
			r.runTask(t, log)
		}
	}
}

func (r *TaskRunner) runTask(t Task, log *slog.Logger) {
	log.Debug("executing task",
		"task_id", t.ID(),
		"task_type", t.Type())

	if err := t.Execute(r.ctx); err != nil {
		r.errHandler(t, err)
		return
	}

	log.Debug("task completed",
		"task_id", t.ID(),
		"task_type", t.Type())
}
