package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"checkpoint/internal/models"
)

func TestAppendThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")
	day := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	entries := []models.JournalEntry{
		{Action: "register", UID: "04A1B2", Name: "Ana", At: day},
		{Action: "delete", UID: "04A1B2", At: day.Add(time.Hour)},
	}
	for _, e := range entries {
		if err := AppendEntry(dir, e); err != nil {
			t.Fatalf("AppendEntry: %v", err)
		}
	}

	got, err := LoadEntries(dir, day)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Name != "Ana" || got[1].Action != "delete" {
		t.Errorf("unexpected entries %+v", got)
	}
}

func TestLoadEntries_MissingDayIsEmpty(t *testing.T) {
	got, err := LoadEntries(t.TempDir(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %+v", got)
	}
}

func TestLoadEntries_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	content := `{"action":"register","uid":"A","name":"Ana","at":"2024-03-04T09:00:00Z"}
not json
{"action":"delete","uid":"A","at":"2024-03-04T10:00:00Z"}
`
	if err := os.WriteFile(filepath.Join(dir, "2024-03-04.jsonl"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadEntries(dir, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected the malformed line to be skipped, got %d entries", len(got))
	}
}

func TestListDays(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2024-03-05.jsonl", "2024-03-04.jsonl", "notes.txt", "bogus.jsonl"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	days, err := ListDays(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 2 || days[0] != "2024-03-04" || days[1] != "2024-03-05" {
		t.Errorf("unexpected days %v", days)
	}

	missing, err := ListDays(filepath.Join(dir, "nope"))
	if err != nil || len(missing) != 0 {
		t.Errorf("missing dir: %v, %v", missing, err)
	}
}
