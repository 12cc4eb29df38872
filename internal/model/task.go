package model

import "time"

// TaskID is the unique identifier of a task. IDs are assigned
// sequentially starting at 1 and are never reused within a session,
// even after the task they belonged to has been deleted.
type TaskID int64

// Task is a single to-do item owned by the task store.
type Task struct {
	// ID is the unique identifier, assigned at creation, immutable.
	ID TaskID `json:"id"`

	// Title is the display string. Always non-empty for stored tasks.
	Title string `json:"title"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// DueDate is the optional calendar date the task is due.
	DueDate *Date `json:"dueDate,omitempty"`

	// Completed reports whether the task has been finished.
	Completed bool `json:"completed"`

	// CreatedAt is when the task was created. Used only for display,
	// never for ordering.
	CreatedAt time.Time `json:"createdAt"`
}

// CloneTasks returns a deep copy of a task collection. DueDate is the
// only pointer field and is copied so callers cannot mutate stored
// tasks through a snapshot.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].DueDate != nil {
			d := *out[i].DueDate
			out[i].DueDate = &d
		}
	}
	return out
}
