// Package export renders extraction results as CSV, XLSX workbooks,
// Markdown reports, and a SQLite archive.
package export

import (
	"strconv"
	"time"

	"github.com/wudi/pdffield/fields"
)

// Result is the extraction outcome for one document.
type Result struct {
	// Document is the source file's base name without extension.
	Document string
	// Path is the source file path.
	Path string
	// Elapsed is the wall-clock extraction time.
	Elapsed time.Duration
	// Values holds the extracted fields in catalog order.
	Values []fields.Value
	// Err records a document-level failure; Values is empty when set.
	Err error
}

// Failed reports whether the document could not be processed at all.
func (r Result) Failed() bool { return r.Err != nil }

// InvalidCount counts values that failed their pattern check.
func (r Result) InvalidCount() int {
	n := 0
	for _, v := range r.Values {
		if !v.Valid {
			n++
		}
	}
	return n
}

// Header returns the output column headers for a catalog: the document
// name, every field in order, and the processing time.
func Header(descs []fields.Descriptor) []string {
	cols := make([]string, 0, len(descs)+2)
	cols = append(cols, "Dokument")
	for _, d := range descs {
		cols = append(cols, d.Name)
	}
	return append(cols, "Dauer (s)")
}

// Row renders one result against the catalog's column layout. Failed
// documents report the fallback sentinel in every field column.
func Row(descs []fields.Descriptor, r Result) []string {
	cols := make([]string, 0, len(descs)+2)
	cols = append(cols, r.Document)

	byName := make(map[string]string, len(r.Values))
	for _, v := range r.Values {
		byName[v.Name] = v.Text
	}
	for _, d := range descs {
		if text, ok := byName[d.Name]; ok {
			cols = append(cols, text)
		} else {
			cols = append(cols, "-")
		}
	}
	return append(cols, formatElapsed(r.Elapsed))
}

func formatElapsed(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 2, 64)
}
