package store_test

import (
	"context"
	"testing"

	"github.com/ymatsuda/taskpad/internal/model"
	"github.com/ymatsuda/taskpad/internal/store"
	"github.com/ymatsuda/taskpad/tests/testutil"
)

// Mutations written through one store must be visible to a store
// reloaded from the same adapter, for both backends.
func TestReloadAfterMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		adapter := testutil.NewSQLiteAdapter(t)

		s := store.NewTaskStore(ctx, adapter)
		due := model.NewDate(2026, 9, 15)
		s.Add(ctx, "Buy milk", "2 liters", &due)
		id, _ := s.Add(ctx, "Walk dog", "", nil)
		s.ToggleComplete(ctx, id)

		reloaded := store.NewTaskStore(ctx, adapter)
		tasks := reloaded.Tasks()
		if len(tasks) != 2 {
			t.Fatalf("reloaded %d tasks, want 2", len(tasks))
		}
		if tasks[0].Title != "Buy milk" || tasks[0].DueDate == nil {
			t.Errorf("first task = %+v, want title and due date preserved", tasks[0])
		}
		if !tasks[1].Completed {
			t.Errorf("second task = %+v, want completed preserved", tasks[1])
		}

		// IDs keep advancing past everything ever persisted.
		if next, _ := reloaded.Add(ctx, "Third", "", nil); next != 3 {
			t.Errorf("next id after reload = %d, want 3", next)
		}
	})

	t.Run("file", func(t *testing.T) {
		adapter := testutil.NewFileAdapter(t)

		s := store.NewTaskStore(ctx, adapter)
		s.Add(ctx, "Buy milk", "", nil)
		s.ClearCompleted(ctx)

		reloaded := store.NewTaskStore(ctx, adapter)
		if got := len(reloaded.Tasks()); got != 1 {
			t.Errorf("reloaded %d tasks, want 1", got)
		}
	})
}
