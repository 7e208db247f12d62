package dataset

import (
	"sort"
	"time"
)

// Paper holds the metadata fetched from arXiv. Immutable once fetched.
type Paper struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Abstract   string    `json:"abstract"`
	Authors    []string  `json:"authors"`
	Categories []string  `json:"categories"`
	Link       string    `json:"link"`
	Published  time.Time `json:"published_date"`
	Updated    time.Time `json:"updated_date"`
}

// Scoring methods recorded on a Record.
const (
	MethodLLM     = "llm"
	MethodKeyword = "keyword"
)

// Record is a Paper annotated by the filter stage. Scored is false when the
// scoring request or response parse failed; such records are retained so a
// single endpoint failure never loses data.
type Record struct {
	Paper
	Scored             bool    `json:"scored"`
	Relevant           bool    `json:"relevant"`
	Score              float64 `json:"score"`
	Method             string  `json:"method,omitempty"`
	Rationale          string  `json:"rationale,omitempty"`
	TranslatedAbstract string  `json:"translated_abstract,omitempty"`
}

// Dataset is the ordered set of annotated records for one calendar date.
type Dataset struct {
	Date    time.Time
	Records []Record
}

// New builds a Dataset with the canonical record ordering applied.
func New(date time.Time, records []Record) Dataset {
	if records == nil {
		records = []Record{}
	}
	d := Dataset{Date: date.UTC(), Records: records}
	d.sort()
	return d
}

// sort orders records by score descending, ties broken by arXiv ID ascending.
// The ordering is total, so writing the same records twice produces identical
// files.
func (d *Dataset) sort() {
	sort.SliceStable(d.Records, func(i, j int) bool {
		if d.Records[i].Score != d.Records[j].Score {
			return d.Records[i].Score > d.Records[j].Score
		}
		return d.Records[i].ID < d.Records[j].ID
	})
}

// Relevant returns the records the filter marked relevant.
func (d Dataset) Relevant() []Record {
	var out []Record
	for _, r := range d.Records {
		if r.Scored && r.Relevant {
			out = append(out, r)
		}
	}
	return out
}

// Unscored returns the records whose scoring failed.
func (d Dataset) Unscored() []Record {
	var out []Record
	for _, r := range d.Records {
		if !r.Scored {
			out = append(out, r)
		}
	}
	return out
}

// Excluded returns the count of records scored but deemed not relevant.
func (d Dataset) Excluded() int {
	n := 0
	for _, r := range d.Records {
		if r.Scored && !r.Relevant {
			n++
		}
	}
	return n
}
