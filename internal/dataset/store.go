package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Store persists one JSON file per date in a flat directory. Files are
// overwritten whole on each write; there is no other storage.
type Store struct {
	dir string
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(date time.Time) string {
	return filepath.Join(s.dir, date.UTC().Format(dateLayout)+".json")
}

// Exists reports whether a dataset file for the date is present.
func (s *Store) Exists(date time.Time) bool {
	_, err := os.Stat(s.path(date))
	return err == nil
}

// Write persists the dataset for its date, replacing any previous file.
// The write goes through a temp file and rename so a crash mid-run never
// leaves a truncated dataset behind.
func (s *Store) Write(d Dataset) error {
	records := d.Records
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".dataset-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(d.Date)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing dataset: %w", err)
	}
	return nil
}

// Read loads the dataset for a date.
func (s *Store) Read(date time.Time) (Dataset, error) {
	data, err := os.ReadFile(s.path(date))
	if err != nil {
		return Dataset{}, fmt.Errorf("reading dataset for %s: %w", date.UTC().Format(dateLayout), err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return Dataset{}, fmt.Errorf("parsing dataset for %s: %w", date.UTC().Format(dateLayout), err)
	}
	if records == nil {
		records = []Record{}
	}
	return Dataset{Date: date.UTC(), Records: records}, nil
}

// Dates lists every date with a stored dataset, newest first. Each date
// appears exactly once since the filename is the date.
func (s *Store) Dates() ([]time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing data dir: %w", err)
	}
	var dates []time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		t, err := time.Parse(dateLayout, strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		dates = append(dates, t.UTC())
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}
