package valueobjects

import "fmt"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityLabels = map[Priority]string{
	PriorityHigh:   "Høj",
	PriorityMedium: "Medium",
	PriorityLow:    "Lav",
}

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

func NewPriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	_, ok := priorityLabels[p]
	return ok
}

func (p Priority) Label() string {
	return priorityLabels[p]
}

// Rank orders priorities with high first.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskOngoing    TaskStatus = "ongoing"
	TaskBlocked    TaskStatus = "blocked"
	TaskCompleted  TaskStatus = "completed"
)

var taskStatusLabels = map[TaskStatus]string{
	TaskNotStarted: "Ikke startet",
	TaskOngoing:    "Igangværende",
	TaskBlocked:    "Blokeret",
	TaskCompleted:  "Afsluttet",
}

func NewTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return st, nil
}

func (s TaskStatus) String() string {
	return string(s)
}

func (s TaskStatus) IsValid() bool {
	_, ok := taskStatusLabels[s]
	return ok
}

func (s TaskStatus) Label() string {
	return taskStatusLabels[s]
}
