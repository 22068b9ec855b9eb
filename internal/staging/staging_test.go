package staging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	duration := 30
	snapshot := Snapshot{
		Date:          "2024-05-01",
		MoodScore:     8,
		Activities:    []Activity{{Name: "running", Duration: &duration}},
		CustomMetrics: []Metric{{Name: "sleep", Value: 7.5, Unit: "h"}},
		Timestamp:     "2024-05-01T21:00:00Z",
		SubmissionID:  "abc",
	}

	path, err := store.Write(snapshot)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if path != filepath.Join(dir, "daily-2024-05-01.json") {
		t.Fatalf("unexpected path: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("staged file is not JSON: %v", err)
	}
	if decoded["moodScore"] != float64(8) || decoded["submissionId"] != "abc" {
		t.Fatalf("unexpected staged payload: %s", raw)
	}

	got, err := store.Read("2024-05-01")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !reflect.DeepEqual(*got, snapshot) {
		t.Fatalf("expected %+v, got %+v", snapshot, *got)
	}
}

func TestReadMissing(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := store.Read("2024-05-01"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestWriteRejectsBadDate(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := store.Write(Snapshot{Date: "../escape"}); err == nil {
		t.Fatal("expected invalid date to be rejected")
	}
}

func TestDatesNewestFirst(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	for _, date := range []string{"2024-05-02", "2024-04-30", "2024-05-10"} {
		if _, err := store.Write(Snapshot{Date: date, MoodScore: 5}); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	want := []string{"2024-05-10", "2024-05-02", "2024-04-30"}
	if got := store.Dates(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank directory")
	}
}
