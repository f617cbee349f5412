package model

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskExpired    TaskStatus = "EXPIRED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// transitions lists, for each status, the statuses a task may move to.
// Terminal statuses map to an empty set.
var transitions = map[TaskStatus][]TaskStatus{
	TaskTodo:       {TaskInProgress, TaskCompleted, TaskExpired, TaskCancelled},
	TaskInProgress: {TaskCompleted, TaskExpired, TaskCancelled},
	TaskCompleted:  {},
	TaskExpired:    {},
	TaskCancelled:  {},
}

func (s TaskStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition is possible.
func (s TaskStatus) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether a task in status s may be saved with status
// next. Keeping the same status is always allowed.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	ProjectID   *int64     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// User is only populated when tasks are listed as part of a project.
	User *UserRef `json:"user,omitempty"`
}

// TaskInput is the body of task create and update requests. Dates stay
// strings until the service parses them.
type TaskInput struct {
	Title       string     `json:"title" validate:"notblank"`
	Description string     `json:"description" validate:"notblank"`
	StartDate   string     `json:"startDate" validate:"notblank"`
	EndDate     string     `json:"endDate" validate:"notblank"`
	Status      TaskStatus `json:"status,omitempty"`
	ProjectID   *int64     `json:"projectId,omitempty"`
}

type TaskStats struct {
	TotalTasks int `json:"totalTasks"`
	Todo       int `json:"TodoQuantity"`
	Completed  int `json:"completedTasksQuantity"`
	Cancelled  int `json:"cancelledTasksQuantity"`
	Expired    int `json:"expiredTasksQuantity"`
}
