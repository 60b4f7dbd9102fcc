package model

import (
	"path/filepath"
	"time"
)

// TaskKind tells which stage produced a task
type TaskKind string

const (
	TaskKindPre      TaskKind = "pre"
	TaskKindPost     TaskKind = "post"
	TaskKindArchive  TaskKind = "archive"
	TaskKindChecksum TaskKind = "checksum"
)

// ConversionTask represents a single external-tool job on one file
type ConversionTask struct {
	ID         string
	Kind       TaskKind
	Source     string     // input file or directory
	Output     string     // file written by the job
	Status     TaskStatus // current state
	LastError  string     // last error message if any
	StartedAt  time.Time  // when the job started
	FinishedAt time.Time  // when the job finished
}

// Duration returns how long the task ran, or zero if it has not finished
func (ct *ConversionTask) Duration() time.Duration {
	if ct.StartedAt.IsZero() || ct.FinishedAt.IsZero() {
		return 0
	}
	return ct.FinishedAt.Sub(ct.StartedAt)
}

// GetDisplayName returns the base name of the source, falling back to the ID
func (ct *ConversionTask) GetDisplayName() string {
	if ct.Source == "" {
		return ct.ID
	}
	return filepath.Base(ct.Source)
}
