package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"dispatch/pkg/logger"
)

var TaskDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "background_task_duration_seconds",
		Help:    "Duration of background task runs",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	},
	[]string{"task", "result"},
)

// Task определяет интерфейс для фоновых задач, которые могут выполняться периодически.
type Task interface {
	// TTL возвращает интервал между выполнениями задачи.
	TTL() time.Duration

	// Do выполняет логику задачи.
	Do(context.Context) error

	// Info возвращает читаемое описание задачи для логгирования и отладки.
	Info() string
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Worker управляет выполнением набора фоновых задач.
type Worker struct {
	log   handlerLogger
	tasks []Task
	group *errgroup.Group
}

// Start запускает задачи: первый прогон сразу, дальше раз в TTL.
//
// В отличие от стартовой проверки зависимостей, ошибка прогона не валит
// процесс: провайдер может быть недоступен, а следующий тик повторит работу.
// Прогон одной задачи не пересекается с ее же следующим прогоном; каждому
// прогону дается не больше TTL.
func Start(ctx context.Context, log handlerLogger, tasks []Task) *Worker {
	group, groupCtx := errgroup.WithContext(ctx)
	w := &Worker{
		log:   log,
		tasks: tasks,
		group: group,
	}

	for _, task := range tasks {
		group.Go(func() error {
			w.runBackgroundTask(groupCtx, task)
			return nil
		})
	}

	return w
}

// Wait блокируется, пока все задачи не остановятся по отмене контекста.
func (w *Worker) Wait() {
	_ = w.group.Wait()
}

func (w *Worker) runBackgroundTask(ctx context.Context, task Task) {
	ttl := task.TTL()
	if ttl <= 0 {
		w.log.Warn("invalid TTL, skipping periodic execution",
			logger.NewField("task", task.Info()),
			logger.NewField("TTL", ttl),
		)
		return
	}
	w.log.Info("Starting periodic execution",
		logger.NewField("task", task.Info()),
		logger.NewField("TTL", ttl),
	)

	w.executeTaskSafely(ctx, task, ttl)

	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Stopping task (context cancelled)",
				logger.NewField("task", task.Info()),
			)
			return
		case <-ticker.C:
			w.executeTaskSafely(ctx, task, ttl)
		}
	}
}

func (w *Worker) executeTaskSafely(ctx context.Context, task Task, timeout time.Duration) {
	start := time.Now()
	result := "ok"
	defer func() {
		if r := recover(); r != nil {
			result = "panic"
			w.log.Error("Background task panic",
				logger.NewField("task", task.Info()),
				logger.NewField("recover", fmt.Sprint(r)),
				logger.NewField("stack", string(debug.Stack())),
			)
		}
		TaskDuration.WithLabelValues(task.Info(), result).Observe(time.Since(start).Seconds())
	}()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := task.Do(runCtx); err != nil {
		result = "error"
		w.log.Error("Background task failed",
			logger.NewField("task", task.Info()),
			logger.NewField("error", err),
		)
	}
}
