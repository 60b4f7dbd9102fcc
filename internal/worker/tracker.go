package worker

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rvgl-uber/textools/internal/model"
)

// Tracker owns the tasks of one service and reports their state changes
type Tracker struct {
	idPrefix   string
	tasks      map[string]*model.ConversionTask
	tasksMutex sync.RWMutex
	onUpdate   func(*model.ConversionTask) // callback for progress reporting
}

// NewTracker creates a tracker whose task IDs start with idPrefix
func NewTracker(idPrefix string) *Tracker {
	return &Tracker{
		idPrefix: idPrefix,
		tasks:    make(map[string]*model.ConversionTask),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (t *Tracker) SetUpdateCallback(callback func(*model.ConversionTask)) {
	t.onUpdate = callback
}

// GetTask returns a task by ID
func (t *Tracker) GetTask(taskID string) (*model.ConversionTask, bool) {
	t.tasksMutex.RLock()
	defer t.tasksMutex.RUnlock()
	task, exists := t.tasks[taskID]
	return task, exists
}

// NewTask registers a pending task
func (t *Tracker) NewTask(kind model.TaskKind, source, output string) *model.ConversionTask {
	task := &model.ConversionTask{
		ID:     t.generateTaskID(),
		Kind:   kind,
		Source: source,
		Output: output,
		Status: model.TaskStatusPending,
	}

	t.tasksMutex.Lock()
	t.tasks[task.ID] = task
	t.tasksMutex.Unlock()

	t.notifyUpdate(task)
	return task
}

// Hooks returns pool hooks that keep the tracked tasks up to date
func (t *Tracker) Hooks() Hooks {
	return Hooks{Start: t.setTaskRunning, Finish: t.finishTask}
}

// setTaskRunning marks a task as started
func (t *Tracker) setTaskRunning(task *model.ConversionTask) {
	t.tasksMutex.Lock()
	task.Status = model.TaskStatusRunning
	task.StartedAt = time.Now()
	t.tasksMutex.Unlock()

	t.notifyUpdate(task)
}

// finishTask records the final state of a task
func (t *Tracker) finishTask(task *model.ConversionTask, status model.TaskStatus, err error) {
	t.tasksMutex.Lock()
	task.Status = status
	if err != nil {
		task.LastError = err.Error()
	}
	task.FinishedAt = time.Now()
	t.tasksMutex.Unlock()

	switch status {
	case model.TaskStatusCompleted:
		log.Printf("%s %s done (%v)", task.Kind, task.GetDisplayName(), task.Duration().Round(time.Millisecond))
	case model.TaskStatusError:
		log.Printf("%s %s failed: %v", task.Kind, task.GetDisplayName(), err)
	}
	t.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (t *Tracker) notifyUpdate(task *model.ConversionTask) {
	if t.onUpdate != nil {
		t.onUpdate(task)
	}
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func (t *Tracker) generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(t.idPrefix+"%d", time.Now().UnixNano())
	}
	return t.idPrefix + id.String()
}
