package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/wudi/pdffield/fields"
)

// WriteCSV streams the results as a CSV table with one row per document.
func WriteCSV(w io.Writer, descs []fields.Descriptor, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(descs)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(Row(descs, r)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", r.Document, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
