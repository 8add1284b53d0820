package domain

import "testing"

func TestParseTaskStatus(t *testing.T) {
	t.Parallel() // Enable parallel execution
	for _, raw := range []string{"pending", "working", "review", "done", "archive"} {
		status, err := ParseTaskStatus(raw)
		if err != nil {
			t.Errorf("Expected no error for %q, got %v", raw, err)
		}
		if string(status) != raw {
			t.Errorf("Expected status %q, got %q", raw, status)
		}
	}

	for _, raw := range []string{"", "Pending", "deleted", "in-progress"} {
		if _, err := ParseTaskStatus(raw); err != ErrInvalidTaskStatus {
			t.Errorf("Expected error %v for %q, got %v", ErrInvalidTaskStatus, raw, err)
		}
	}
}

func TestTaskStatusCanTransitionTo(t *testing.T) {
	t.Parallel() // Enable parallel execution
	all := []TaskStatus{
		TaskStatusPending, TaskStatusWorking, TaskStatusReview,
		TaskStatusDone, TaskStatusArchive,
	}

	// Every non-done state may move to any recognized status.
	for _, from := range []TaskStatus{TaskStatusPending, TaskStatusWorking, TaskStatusReview, TaskStatusArchive} {
		for _, to := range all {
			if !from.CanTransitionTo(to) {
				t.Errorf("Expected transition %s -> %s to be allowed", from, to)
			}
		}
	}

	// Done may only move to archive.
	for _, to := range all {
		allowed := TaskStatusDone.CanTransitionTo(to)
		if to == TaskStatusArchive && !allowed {
			t.Errorf("Expected transition done -> archive to be allowed")
		}
		if to != TaskStatusArchive && allowed {
			t.Errorf("Expected transition done -> %s to be rejected", to)
		}
	}

	// Unrecognized targets are never allowed.
	if TaskStatusPending.CanTransitionTo("paused") {
		t.Error("Expected transition to unknown status to be rejected")
	}
}
