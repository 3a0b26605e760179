package filewatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ajkula/GoLayoutView/domain/model"
)

func newTestWatch(t *testing.T, debounce time.Duration, path string) *fsWatch {
	t.Helper()

	factory := NewFSWatcherFactory(debounce, 16)
	handle, err := factory.Watch(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to start watch: %v", err)
	}
	t.Cleanup(func() { handle.Close() })

	return handle.(*fsWatch)
}

func TestFsWatch_SingleModification(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "chip.gds")

	if err := os.WriteFile(testFile, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	watch := newTestWatch(t, 200*time.Millisecond, testFile)

	// give the watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(testFile, []byte("v2"), 0644); err != nil {
		t.Fatalf("Failed to modify test file: %v", err)
	}

	select {
	case event := <-watch.Events():
		if event.Path != testFile {
			t.Errorf("Expected event for %s, got event for %s", testFile, event.Path)
		}
		if event.Type != model.FileModified && event.Type != model.FileCreated {
			t.Errorf("Expected modify or create event, got %s", event.Type)
		}

	case err := <-watch.Errors():
		t.Fatalf("Unexpected error from watcher: %v", err)

	case <-time.After(3 * time.Second):
		t.Fatal("No event received for a single modification")
	}

	// the debounce window already closed; nothing else should arrive
	select {
	case event := <-watch.Events():
		t.Errorf("Expected exactly one event, got a second one: %+v", event)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestFsWatch_BurstCollapsesToOneEvent(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "chip.gds")

	if err := os.WriteFile(testFile, []byte("v0"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	watch := newTestWatch(t, 250*time.Millisecond, testFile)

	time.Sleep(100 * time.Millisecond)

	// several writes inside one debounce window
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(testFile, []byte{byte('a' + i)}, 0644); err != nil {
			t.Fatalf("Failed to write burst %d: %v", i, err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-watch.Events():
	case err := <-watch.Errors():
		t.Fatalf("Unexpected error from watcher: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("No event received for a burst of modifications")
	}

	select {
	case event := <-watch.Events():
		t.Errorf("Burst should collapse to one event, got a second one: %+v", event)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestFsWatch_SpacedModificationsEachNotify(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "board.dxf")

	if err := os.WriteFile(testFile, []byte("v0"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	watch := newTestWatch(t, 150*time.Millisecond, testFile)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(testFile, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to write first modification: %v", err)
	}

	select {
	case <-watch.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("No event for first modification")
	}

	// well outside the first window
	time.Sleep(300 * time.Millisecond)

	if err := os.WriteFile(testFile, []byte("v2"), 0644); err != nil {
		t.Fatalf("Failed to write second modification: %v", err)
	}

	select {
	case <-watch.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("No event for second modification")
	}
}

func TestFsWatch_IgnoresSiblingFiles(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "chip.gds")
	sibling := filepath.Join(tempDir, "other.gds")

	if err := os.WriteFile(testFile, []byte("v0"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	watch := newTestWatch(t, 150*time.Millisecond, testFile)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(sibling, []byte("noise"), 0644); err != nil {
		t.Fatalf("Failed to write sibling file: %v", err)
	}

	select {
	case event := <-watch.Events():
		t.Errorf("Expected no event for sibling file, got %+v", event)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestFsWatch_FileCreatedAfterWatch(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "late.gdsii")

	// the file does not exist yet; the directory watch picks it up on creation
	watch := newTestWatch(t, 150*time.Millisecond, testFile)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(testFile, []byte("fresh"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	select {
	case event := <-watch.Events():
		if event.Path != testFile {
			t.Errorf("Expected event for %s, got %s", testFile, event.Path)
		}
	case err := <-watch.Errors():
		t.Fatalf("Unexpected error from watcher: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("No event received for file creation")
	}
}

func TestFsWatch_WatchMissingDirectory(t *testing.T) {
	factory := NewFSWatcherFactory(150*time.Millisecond, 16)

	_, err := factory.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "chip.gds"))
	if err == nil {
		t.Fatal("Expected an error when the parent directory does not exist")
	}
}

func TestFsWatch_CloseIsIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "chip.gds")

	if err := os.WriteFile(testFile, []byte("v0"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	factory := NewFSWatcherFactory(150*time.Millisecond, 16)
	handle, err := factory.Watch(context.Background(), testFile)
	if err != nil {
		t.Fatalf("Failed to start watch: %v", err)
	}

	if err := handle.Close(); err != nil {
		t.Fatalf("Failed to close handle: %v", err)
	}

	// events channel is closed once teardown finished
	if _, open := <-handle.Events(); open {
		t.Error("Expected events channel to be closed after Close()")
	}

	if err := handle.Close(); err != nil {
		t.Fatalf("Second Close() call should not error: %v", err)
	}
}

func TestFsWatch_NoEventsAfterClose(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "chip.gds")

	if err := os.WriteFile(testFile, []byte("v0"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	factory := NewFSWatcherFactory(150*time.Millisecond, 16)
	handle, err := factory.Watch(context.Background(), testFile)
	if err != nil {
		t.Fatalf("Failed to start watch: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if err := handle.Close(); err != nil {
		t.Fatalf("Failed to close handle: %v", err)
	}

	// a released watch must stay silent
	if err := os.WriteFile(testFile, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to modify file: %v", err)
	}

	time.Sleep(400 * time.Millisecond)

	select {
	case event, open := <-handle.Events():
		if open {
			t.Errorf("Received event after Close(): %+v", event)
		}
	default:
		t.Error("Expected events channel to be closed after Close()")
	}
}
