// Package store owns the in-memory task collection and writes it
// through to a storage adapter after every mutation.
package store

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/ymatsuda/taskpad/internal/model"
	"github.com/ymatsuda/taskpad/internal/storage"
)

// TaskPatch is a partial update for a task. Nil fields are left
// untouched. ClearDueDate removes the due date; it wins over DueDate
// if both are set.
type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *model.Date
	ClearDueDate bool
}

// TaskStore is the single source of truth for the task collection.
//
// Every mutation updates the in-memory collection first and then
// performs exactly one write-through of the whole collection to the
// adapter. Write failures are logged and do not roll back the
// mutation; the in-memory state stays authoritative for the session.
//
// All operations are expected to run on one goroutine. The store
// does not lock; hand out snapshots from Tasks, not the store itself.
type TaskStore struct {
	adapter storage.Adapter
	tasks   []model.Task
	nextID  model.TaskID
}

// NewTaskStore loads the persisted collection through the adapter.
// A missing or unreadable stored copy degrades to an empty
// collection with a diagnostic log line; startup never fails on
// corrupt storage.
func NewTaskStore(ctx context.Context, adapter storage.Adapter) *TaskStore {
	tasks, err := adapter.Load(ctx)
	if err != nil {
		log.Printf("loading persisted tasks: %v (starting empty)", err)
		tasks = []model.Task{}
	}

	nextID := model.TaskID(1)
	for _, t := range tasks {
		if t.ID >= nextID {
			nextID = t.ID + 1
		}
	}

	return &TaskStore{
		adapter: adapter,
		tasks:   tasks,
		nextID:  nextID,
	}
}

// Add appends a new task with the given title, optional description,
// and optional due date. The title is trimmed; a blank title is a
// no-op and returns false. The new task starts uncompleted.
func (s *TaskStore) Add(
	ctx context.Context,
	title string,
	description string,
	dueDate *model.Date,
) (model.TaskID, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, false
	}

	id := s.nextID
	s.nextID++

	if dueDate != nil {
		d := *dueDate
		dueDate = &d
	}

	s.tasks = append(s.tasks, model.Task{
		ID:          id,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	})

	s.persist(ctx)
	return id, true
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (s *TaskStore) Delete(ctx context.Context, id model.TaskID) {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept

	s.persist(ctx)
}

// ToggleComplete flips the completed flag of the task with the given
// id. Unknown ids are ignored.
func (s *TaskStore) ToggleComplete(ctx context.Context, id model.TaskID) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			break
		}
	}

	s.persist(ctx)
}

// Update applies a partial update to the task with the given id.
// Unknown ids are ignored. A blank or whitespace-only title in the
// patch is rejected and the previous title kept, while the other
// patch fields still apply; this keeps titles from going blank via
// edit just as blank titles are blocked at creation.
func (s *TaskStore) Update(ctx context.Context, id model.TaskID, patch TaskPatch) {
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}

		if patch.Title != nil {
			if title := strings.TrimSpace(*patch.Title); title != "" {
				s.tasks[i].Title = title
			}
		}
		if patch.Description != nil {
			s.tasks[i].Description = *patch.Description
		}
		switch {
		case patch.ClearDueDate:
			s.tasks[i].DueDate = nil
		case patch.DueDate != nil:
			d := *patch.DueDate
			s.tasks[i].DueDate = &d
		}
		break
	}

	s.persist(ctx)
}

// MarkAll sets the completed flag of every task to the given value in
// one mutation with a single write-through.
func (s *TaskStore) MarkAll(ctx context.Context, completed bool) {
	for i := range s.tasks {
		s.tasks[i].Completed = completed
	}

	s.persist(ctx)
}

// ClearCompleted removes every completed task, preserving the
// relative order of the remainder.
func (s *TaskStore) ClearCompleted(ctx context.Context) {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	s.tasks = kept

	s.persist(ctx)
}

// Tasks returns a read-only snapshot of the collection in stored
// order.
func (s *TaskStore) Tasks() []model.Task {
	return model.CloneTasks(s.tasks)
}

// Get returns a copy of the task with the given id, if present.
func (s *TaskStore) Get(id model.TaskID) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			if t.DueDate != nil {
				d := *t.DueDate
				t.DueDate = &d
			}
			return t, true
		}
	}
	return model.Task{}, false
}

// Counts returns the total, active, and completed task tallies shown
// in the tracker footer.
func (s *TaskStore) Counts() (total, active, completed int) {
	total = len(s.tasks)
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return total, active, completed
}

// persist writes the whole post-mutation collection through to the
// adapter. Failures are logged, never surfaced: losing the latest
// save must not crash or roll back the session.
func (s *TaskStore) persist(ctx context.Context) {
	if err := s.adapter.Save(ctx, s.tasks); err != nil {
		log.Printf("persisting tasks: %v", err)
	}
}
