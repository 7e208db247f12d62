package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var day = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

func TestNewSortsRecords(t *testing.T) {
	records := []Record{
		{Paper: Paper{ID: "c"}, Scored: true, Score: 5},
		{Paper: Paper{ID: "a"}, Scored: true, Score: 8},
		{Paper: Paper{ID: "b"}, Scored: true, Score: 5},
		{Paper: Paper{ID: "d"}}, // unscored, score 0
	}
	d := New(day, records)

	wantOrder := []string{"a", "b", "c", "d"}
	for i, want := range wantOrder {
		if d.Records[i].ID != want {
			t.Fatalf("position %d = %q, want %q (order: %v)", i, d.Records[i].ID, want, ids(d.Records))
		}
	}
}

func ids(records []Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestDatasetPartitions(t *testing.T) {
	d := New(day, []Record{
		{Paper: Paper{ID: "a"}, Scored: true, Relevant: true, Score: 8},
		{Paper: Paper{ID: "b"}, Scored: true, Relevant: false, Score: 2},
		{Paper: Paper{ID: "c"}},
	})
	if got := len(d.Relevant()); got != 1 {
		t.Errorf("Relevant = %d, want 1", got)
	}
	if got := len(d.Unscored()); got != 1 {
		t.Errorf("Unscored = %d, want 1", got)
	}
	if got := d.Excluded(); got != 1 {
		t.Errorf("Excluded = %d, want 1", got)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	d := New(day, []Record{
		{Paper: Paper{ID: "2511.01001", Title: "A", Authors: []string{"X"}}, Scored: true, Relevant: true, Score: 8, Rationale: "fits"},
		{Paper: Paper{ID: "2511.01002", Title: "B"}, Scored: true, Score: 2},
	})
	if err := store.Write(d); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !store.Exists(day) {
		t.Error("Exists should be true after write")
	}

	got, err := store.Read(day)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got.Records))
	}
	if got.Records[0].ID != "2511.01001" || got.Records[0].Score != 8 {
		t.Errorf("first record = %+v", got.Records[0])
	}
	if !got.Date.Equal(day) {
		t.Errorf("date = %v", got.Date)
	}
}

func TestStoreWriteIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	d := New(day, []Record{
		{Paper: Paper{ID: "b", Title: "B"}, Scored: true, Score: 3},
		{Paper: Paper{ID: "a", Title: "A"}, Scored: true, Score: 7},
	})
	if err := store.Write(d); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(dir, "2025-11-03.json"))
	if err != nil {
		t.Fatal(err)
	}

	// Same records in a different input order must produce identical bytes.
	d2 := New(day, []Record{
		{Paper: Paper{ID: "a", Title: "A"}, Scored: true, Score: 7},
		{Paper: Paper{ID: "b", Title: "B"}, Scored: true, Score: 3},
	})
	if err := store.Write(d2); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "2025-11-03.json"))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("rerunning the same date should produce a byte-identical dataset file")
	}
}

func TestStoreEmptyDataset(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(New(day, nil)); err != nil {
		t.Fatalf("Write empty: %v", err)
	}
	got, err := store.Read(day)
	if err != nil {
		t.Fatalf("Read empty: %v", err)
	}
	if got.Records == nil || len(got.Records) != 0 {
		t.Errorf("expected empty (non-nil) records, got %#v", got.Records)
	}
}

func TestStoreDates(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"2025-11-01", "2025-11-03", "2025-11-02"} {
		d, _ := time.Parse("2006-01-02", s)
		if err := store.Write(New(d, nil)); err != nil {
			t.Fatal(err)
		}
	}
	// Rewrite one date: must not duplicate.
	d, _ := time.Parse("2006-01-02", "2025-11-02")
	if err := store.Write(New(d, nil)); err != nil {
		t.Fatal(err)
	}
	// Stray files are ignored.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("[]"), 0o644)

	dates, err := store.Dates()
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	want := []string{"2025-11-03", "2025-11-02", "2025-11-01"}
	for i, w := range want {
		if dates[i].Format("2006-01-02") != w {
			t.Errorf("dates[%d] = %v, want %s", i, dates[i], w)
		}
	}
}

func TestStoreReadMissing(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Read(day); err == nil {
		t.Error("expected error reading missing dataset")
	}
}
