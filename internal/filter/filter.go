// Package filter derives display views of the task collection. It is
// purely functional: nothing here mutates tasks or touches storage.
package filter

import "github.com/ymatsuda/taskpad/internal/model"

// Mode selects which subset of the collection a view shows.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeActive    Mode = "active"
	ModeCompleted Mode = "completed"
)

// Apply returns the tasks visible under the given mode, in stored
// order. Active keeps unfinished tasks, completed keeps finished
// ones, and anything unrecognized falls back to all. The result is a
// fresh slice; the input is never modified.
func Apply(tasks []model.Task, mode Mode) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch mode {
		case ModeActive:
			if t.Completed {
				continue
			}
		case ModeCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
