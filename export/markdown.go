package export

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/wudi/pdffield/fields"
)

// WriteMarkdown renders a human-readable run report: a summary table, an
// alert when documents failed or fields did not validate, and a per-field
// table for each document.
func WriteMarkdown(w io.Writer, descs []fields.Descriptor, results []Result) error {
	md := markdown.NewMarkdown(w)

	md.H1("Field Extraction Report")
	md.PlainText("")

	writeSummary(md, results)
	for _, r := range results {
		writeDocument(md, descs, r)
	}

	md.HorizontalRule()
	md.PlainTextf("*Generated %s*", time.Now().Format("2006-01-02 15:04:05"))
	return md.Build()
}

func writeSummary(md *markdown.Markdown, results []Result) {
	failed, invalid := 0, 0
	for _, r := range results {
		if r.Failed() {
			failed++
			continue
		}
		invalid += r.InvalidCount()
	}

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Documents", strconv.Itoa(len(results))},
			{"Failed documents", strconv.Itoa(failed)},
			{"Fields without pattern match", strconv.Itoa(invalid)},
		},
	})
	md.PlainText("")

	switch {
	case failed > 0:
		md.Warningf("%d document(s) could not be processed.", failed)
	case invalid > 0:
		md.Importantf("%d field value(s) did not match their expected pattern.", invalid)
	default:
		md.Tip("All documents processed and all fields validated.")
	}
	md.PlainText("")
}

func writeDocument(md *markdown.Markdown, descs []fields.Descriptor, r Result) {
	md.H2(r.Document)
	md.PlainText("")

	if r.Failed() {
		md.Cautionf("Extraction failed: %v", r.Err)
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(r.Values))
	for _, v := range r.Values {
		status := "ok"
		if !v.Valid {
			status = "check"
		}
		rows = append(rows, []string{v.Name, "`" + v.Text + "`", status})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value", "Status"},
		Rows:   rows,
	})
	md.PlainTextf("Processing time: %ss", formatElapsed(r.Elapsed))
	md.PlainText("")
}
