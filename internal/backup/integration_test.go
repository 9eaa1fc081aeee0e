package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/storage/sqlite"
)

func countEvents(t *testing.T, store storage.Provider) int {
	t.Helper()
	events, err := store.GetAllEvents()
	if err != nil {
		t.Fatalf("GetAllEvents() failed: %v", err)
	}
	return len(events)
}

// TestIntegrationBackupRestoreWorkflow backs up a planner database, changes
// it, restores the backup and checks the store sees the old data.
func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	stubClock(t)
	dbPath := filepath.Join(t.TempDir(), "planner.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := store.AddEvent(models.Event{Title: "Standup", Date: "2024-06-03", StartTime: "09:00", Recurrence: models.RecurrenceDaily}); err != nil {
		t.Fatalf("AddEvent() failed: %v", err)
	}

	mgr, err := NewManager(dbPath)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, err := store.AddEvent(models.Event{Title: "Dentist", Date: "2024-06-14", StartTime: "14:00"}); err != nil {
		t.Fatalf("AddEvent() failed: %v", err)
	}
	if n := countEvents(t, store); n != 2 {
		t.Fatalf("store has %d events, want 2", n)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	safety, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if safety == "" {
		t.Fatal("Restore() should back up the current database first")
	}

	reopened := sqlite.NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() after restore failed: %v", err)
	}
	defer reopened.Close()
	if n := countEvents(t, reopened); n != 1 {
		t.Errorf("restored store has %d events, want 1", n)
	}

	// The safety copy holds the state from before the restore.
	safetyStore := sqlite.NewStore(safety)
	if err := safetyStore.Load(); err != nil {
		t.Fatalf("Load() of safety copy failed: %v", err)
	}
	defer safetyStore.Close()
	if n := countEvents(t, safetyStore); n != 2 {
		t.Errorf("safety copy has %d events, want 2", n)
	}

	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file was left behind")
	}
}

func TestIntegrationJSONStore(t *testing.T) {
	stubClock(t)
	path := filepath.Join(t.TempDir(), "planner.json")

	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := store.AddTodo(models.TodoItem{Title: "Buy milk", Date: "2024-06-12", Scope: models.TodoScopeDay}); err != nil {
		t.Fatalf("AddTodo() failed: %v", err)
	}

	mgr, _ := NewManager(path)
	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if filepath.Ext(snapshot) != ".json" {
		t.Errorf("JSON backup written as %s", snapshot)
	}

	if err := store.DeleteTodo(1); err != nil {
		t.Fatalf("DeleteTodo() failed: %v", err)
	}
	if _, err := mgr.Restore(snapshot); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	reopened := storage.NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if _, err := reopened.GetTodo(1); err != nil {
		t.Errorf("restored todo missing: %v", err)
	}
}
