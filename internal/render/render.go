package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/dataset"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer writes the per-date pages, the index page and reports.json into a
// single output directory. Rendering is a pure function of the dataset and
// the embedded templates.
type Renderer struct {
	dir       string
	siteTitle string
	tmpl      *template.Template
}

func New(dir, siteTitle string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating html dir: %w", err)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"truncate": func(s string, n int) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return string(runes[:n]) + "..."
		},
		"joinAuthors": func(authors []string) string {
			return strings.Join(authors, ", ")
		},
		"joinCategories": func(cats []string) string {
			return strings.Join(cats, " ")
		},
		"fmtScore": func(f float64) string {
			return fmt.Sprintf("%.1f", f)
		},
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Renderer{dir: dir, siteTitle: siteTitle, tmpl: tmpl}, nil
}

type dayData struct {
	SiteTitle string
	Date      string
	Total     int
	Excluded  int
	Relevant  []dataset.Record
	Unscored  []dataset.Record
}

// RenderDay writes <date>.html for the dataset. Relevant papers form the main
// list (already score-ordered by the dataset); papers whose scoring failed go
// into a marked section; non-relevant papers are only counted. An empty
// dataset still renders a valid page.
func (r *Renderer) RenderDay(d dataset.Dataset) error {
	data := dayData{
		SiteTitle: r.siteTitle,
		Date:      d.Date.Format("2006-01-02"),
		Total:     len(d.Records),
		Excluded:  d.Excluded(),
		Relevant:  d.Relevant(),
		Unscored:  d.Unscored(),
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "day.html.tmpl", data); err != nil {
		return fmt.Errorf("rendering page for %s: %w", data.Date, err)
	}
	path := filepath.Join(r.dir, data.Date+".html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing page for %s: %w", data.Date, err)
	}
	return nil
}

type indexData struct {
	SiteTitle string
	Entries   []indexEntry
}

type indexEntry struct {
	Date string
	Page string
}

// RenderIndex writes index.html with one entry per stored date, newest first.
// It is regenerated whole on every run, so rerunning a date never duplicates
// its entry.
func (r *Renderer) RenderIndex(dates []time.Time) error {
	data := indexData{SiteTitle: r.siteTitle}
	for _, d := range dates {
		day := d.Format("2006-01-02")
		data.Entries = append(data.Entries, indexEntry{Date: day, Page: day + ".html"})
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index.html.tmpl", data); err != nil {
		return fmt.Errorf("rendering index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

// WriteReports writes reports.json, the page-file list the deployed site's
// loader reads. Newest first, one entry per date.
func (r *Renderer) WriteReports(dates []time.Time) error {
	pages := make([]string, 0, len(dates))
	for _, d := range dates {
		pages = append(pages, d.Format("2006-01-02")+".html")
	}
	data, err := json.MarshalIndent(pages, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding reports: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(r.dir, "reports.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}
	return nil
}
