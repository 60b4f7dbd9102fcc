// Package worker runs independent file jobs with bounded parallelism.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rvgl-uber/textools/internal/model"
)

// Job is one independent unit of work bound to its task
type Job struct {
	Task *model.ConversionTask
	Run  func(ctx context.Context) error
}

// Hooks receive task state changes. Both are optional.
type Hooks struct {
	Start  func(task *model.ConversionTask)
	Finish func(task *model.ConversionTask, status model.TaskStatus, err error)
}

// Run runs jobs with at most maxParallel in flight. The first failure stops
// jobs that have not started yet; running jobs keep the parent context and
// finish. Every failure is returned.
func Run(parent context.Context, maxParallel int, jobs []Job, hooks Hooks) error {
	if maxParallel < 1 {
		maxParallel = 1
	}
	// stop gates new jobs only and is never handed to a running job
	stop, cancel := context.WithCancel(parent)
	defer cancel()

	sem := make(chan struct{}, maxParallel)
	var (
		wg     sync.WaitGroup
		errsMu sync.Mutex
		errs   []error
	)

	for _, j := range jobs {
		acquired := false
		select {
		case sem <- struct{}{}:
			acquired = true
		case <-stop.Done():
		}
		if stop.Err() != nil {
			if acquired {
				<-sem
			}
			hooks.finish(j.Task, model.TaskStatusSkipped, nil)
			continue
		}

		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			defer func() { <-sem }()

			hooks.start(j.Task)
			if err := j.Run(parent); err != nil {
				errsMu.Lock()
				errs = append(errs, err)
				errsMu.Unlock()
				cancel()
				hooks.finish(j.Task, model.TaskStatusError, err)
				return
			}
			hooks.finish(j.Task, model.TaskStatusCompleted, nil)
		}(j)
	}
	wg.Wait()

	if err := parent.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Tasks returns the tasks of jobs in order
func Tasks(jobs []Job) []*model.ConversionTask {
	tasks := make([]*model.ConversionTask, len(jobs))
	for i, j := range jobs {
		tasks[i] = j.Task
	}
	return tasks
}

func (h Hooks) start(task *model.ConversionTask) {
	if h.Start != nil {
		h.Start(task)
	}
}

func (h Hooks) finish(task *model.ConversionTask, status model.TaskStatus, err error) {
	if h.Finish != nil {
		h.Finish(task, status, err)
	}
}
