package domain

import "errors"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusWorking TaskStatus = "working"
	TaskStatusReview  TaskStatus = "review"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusArchive TaskStatus = "archive"
)

// Status transition errors.
var (
	// ErrInvalidTaskStatus is returned when a status value is not one of the
	// recognized task statuses.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrIllegalStatusTransition is returned when a status change violates
	// the lifecycle rules (a done task may only move to archive).
	ErrIllegalStatusTransition = errors.New("illegal status transition")
)

// ParseTaskStatus converts a raw string into a TaskStatus.
// Returns ErrInvalidTaskStatus if the value is not recognized.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(raw)
	if !status.Valid() {
		return "", ErrInvalidTaskStatus
	}
	return status, nil
}

// Valid reports whether the status is one of the recognized task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusWorking, TaskStatusReview,
		TaskStatusDone, TaskStatusArchive:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a task in status s may move to target.
// The only restricted state is done: once a task is done it may only be
// archived. Archive is intentionally not terminal; an archived task can be
// reopened to any status.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	if !target.Valid() {
		return false
	}
	if s == TaskStatusDone {
		return target == TaskStatusArchive
	}
	return true
}
