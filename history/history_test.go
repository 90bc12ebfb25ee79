package history

import (
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestAppendAndRecent(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"first", "second", "third"} {
		e := Entry{
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.Append(e); err != nil {
			t.Fatalf("Append(%q): %v", text, err)
		}
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest first.
	want := []string{"third", "second", "first"}
	for i, w := range want {
		if entries[i].Text != w {
			t.Errorf("entries[%d].Text = %q, want %q", i, entries[i].Text, w)
		}
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := Entry{
			Text:      "entry",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}

	entries, err = s.Recent(0)
	if err != nil {
		t.Fatalf("Recent(0): %v", err)
	}
	if entries != nil {
		t.Errorf("Recent(0) = %v, want nil", entries)
	}
}

func TestAppendAssignsDefaults(t *testing.T) {
	s := openTestStore(t)

	if err := s.Append(Entry{Text: "hello", Original: "helo", Language: "en"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := s.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.ID == "" {
		t.Error("ID not assigned")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}
	if e.Original != "helo" || e.Language != "en" {
		t.Errorf("entry fields lost: %+v", e)
	}
}
