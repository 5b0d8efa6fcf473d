// Command pdffield extracts the fixed field catalog from dieline PDFs and
// writes the values as CSV, with optional XLSX, Markdown, and SQLite
// outputs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wudi/pdffield/document"
	"github.com/wudi/pdffield/export"
	"github.com/wudi/pdffield/extract"
	"github.com/wudi/pdffield/fields"
	"github.com/wudi/pdffield/geom"
	"github.com/wudi/pdffield/locate"
	"github.com/wudi/pdffield/observability"
	"github.com/wudi/pdffield/ocr"
	_ "github.com/wudi/pdffield/ocr/tesseract" // registers the default engine
	"github.com/wudi/pdffield/raster"
)

type options struct {
	input      string
	csvPath    string
	xlsxPath   string
	reportPath string
	dbPath     string
	configPath string
	debugDir   string
	findPhrase string
	findPage   int
	dumpWords  bool
	langs      []string
	dpi        int
	jobs       int
	preprocess bool
	verbose    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdffield: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "pdffield: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: pdffield [flags] <pdf-or-directory>\n")
		flag.PrintDefaults()
	}
	csvPath := flag.String("o", "", "CSV output path (default stdout)")
	xlsxPath := flag.String("xlsx", "", "Also write an XLSX workbook to this path")
	reportPath := flag.String("report", "", "Also write a Markdown report to this path")
	dbPath := flag.String("db", "", "Also archive results in this SQLite database")
	configPath := flag.String("config", "", "YAML file overriding field box tables")
	debugDir := flag.String("debug-dir", "", "Directory for annotated match images (enables them)")
	findPhrase := flag.String("find", "", "Locate this phrase instead of extracting fields")
	findPage := flag.Int("find-page", 0, "Zero-based page for -find")
	dumpWords := flag.Bool("dump-words", false, "Dump recognized word boxes per page instead of extracting fields")
	langs := flag.String("langs", strings.Join(extract.DefaultLanguages, ","), "OCR languages, comma separated")
	dpi := flag.Int("dpi", raster.DefaultDPI, "Rasterization resolution for OCR")
	jobs := flag.Int("jobs", 1, "Documents processed in parallel")
	preprocess := flag.Bool("preprocess", false, "Clean and deskew scans with ocrmypdf before extraction")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing input path")
	}
	opts.input = flag.Arg(0)
	opts.csvPath = *csvPath
	opts.xlsxPath = *xlsxPath
	opts.reportPath = *reportPath
	opts.dbPath = *dbPath
	opts.configPath = *configPath
	opts.debugDir = *debugDir
	opts.findPhrase = *findPhrase
	opts.findPage = *findPage
	opts.dumpWords = *dumpWords
	opts.langs = splitLangs(*langs)
	opts.dpi = *dpi
	opts.jobs = *jobs
	opts.preprocess = *preprocess
	opts.verbose = *verbose
	if opts.jobs < 1 {
		return options{}, fmt.Errorf("jobs must be at least 1")
	}
	if opts.dpi < 1 {
		return options{}, fmt.Errorf("dpi must be positive")
	}
	return opts, nil
}

func splitLangs(s string) []string {
	var langs []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

func newLogger(verbose bool) observability.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return observability.NewSlog(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func run(opts options) error {
	log := newLogger(opts.verbose)

	inputs, err := collectInputs(opts.input)
	if err != nil {
		return err
	}

	if opts.dumpWords {
		return runDumpWords(opts, inputs, log)
	}
	if opts.findPhrase != "" {
		return runFind(opts, inputs, log)
	}

	catalog := fields.Registry()
	if opts.configPath != "" {
		overrides, err := fields.LoadOverrides(opts.configPath)
		if err != nil {
			return err
		}
		catalog = overrides.Apply(catalog)
	}

	results := make([]export.Result, len(inputs))
	var g errgroup.Group
	g.SetLimit(opts.jobs)
	for i, path := range inputs {
		g.Go(func() error {
			results[i] = processDocument(path, catalog, opts, log)
			return nil
		})
	}
	_ = g.Wait()

	return writeOutputs(opts, catalog, results)
}

func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var inputs []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		inputs = append(inputs, filepath.Join(path, e.Name()))
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no PDF files in %s", path)
	}
	sort.Strings(inputs)
	return inputs, nil
}

func processDocument(path string, catalog []fields.Descriptor, opts options, log observability.Logger) export.Result {
	start := time.Now()
	result := export.Result{
		Document: baseName(path),
		Path:     path,
	}

	source := path
	if opts.preprocess {
		if cleaned, err := preprocessScan(path, log); err == nil {
			source = cleaned
			defer os.Remove(cleaned)
		}
	}

	ex, err := extract.Open(source,
		extract.WithLogger(log),
		extract.WithDPI(opts.dpi),
		extract.WithLanguages(opts.langs...),
	)
	if err != nil {
		result.Err = err
		result.Elapsed = time.Since(start)
		log.Warn("document skipped",
			observability.String("path", path),
			observability.Error("err", err))
		return result
	}
	defer ex.Close()

	values := fields.ExtractAll(ex, catalog)
	result.Values = fields.EnrichCountries(catalog, values)
	result.Elapsed = time.Since(start)

	log.Info("document processed",
		observability.String("document", result.Document),
		observability.Int("fields", len(result.Values)),
		observability.Float64("elapsed_s", result.Elapsed.Seconds()))
	return result
}

// preprocessScan runs ocrmypdf to deskew and clean a scanned document,
// returning the path of the cleaned copy. Callers fall back to the
// original file on any failure.
func preprocessScan(path string, log observability.Logger) (string, error) {
	out, err := os.CreateTemp("", "pdffield-clean-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	out.Close()

	cmd := exec.Command("ocrmypdf", "--deskew", "--clean", "--optimize", "3",
		"--skip-text", path, out.Name())
	if raw, err := cmd.CombinedOutput(); err != nil {
		os.Remove(out.Name())
		log.Warn("preprocess failed, using original",
			observability.String("path", path),
			observability.String("output", strings.TrimSpace(string(raw))),
			observability.Error("err", err))
		return "", fmt.Errorf("ocrmypdf: %w", err)
	}
	return out.Name(), nil
}

// runDumpWords recognizes every page of every input and writes the word
// box artifacts (annotated PNG plus CSV) used to author field box tables.
func runDumpWords(opts options, inputs []string, log observability.Logger) error {
	dir := opts.debugDir
	if dir == "" {
		dir = locate.DefaultDebugDir
	}
	engine := ocr.DefaultEngine()

	for _, path := range inputs {
		doc, err := document.Open(path)
		if err != nil {
			log.Warn("document skipped",
				observability.String("path", path),
				observability.Error("err", err))
			continue
		}
		pages := doc.PageCount()
		doc.Close()

		cache := raster.NewImageCache(raster.NewPoppler(path, raster.WithDPI(opts.dpi)))
		for page := 0; page < pages; page++ {
			img, err := cache.Image(page)
			if err != nil {
				log.Warn("page image unavailable",
					observability.Int("page", page),
					observability.Error("err", err))
				continue
			}
			in, err := ocr.InputFromImage(img, page,
				ocr.WithLanguages(opts.langs...),
				ocr.WithDPI(opts.dpi),
			)
			if err != nil {
				log.Warn("ocr input encoding failed",
					observability.Int("page", page),
					observability.Error("err", err))
				continue
			}
			res, err := engine.Recognize(context.Background(), in)
			if err != nil {
				log.Warn("ocr engine failed",
					observability.Int("page", page),
					observability.Error("err", err))
				continue
			}
			pngPath, csvPath, err := locate.DumpWords(dir, baseName(path), page, img, res.Words)
			if err != nil {
				cache.Release()
				return err
			}
			fmt.Printf("%s page %d: %d words -> %s, %s\n",
				baseName(path), page, len(res.Words), pngPath, csvPath)
		}
		cache.Release()
	}
	return nil
}

// runFind locates a phrase in each input: native text first, OCR as a
// fallback, with an annotated debug image when -debug-dir is set.
func runFind(opts options, inputs []string, log observability.Logger) error {
	for _, path := range inputs {
		rect, source, ok := findPhrase(path, opts, log)
		if !ok {
			fmt.Printf("%s: %q not found on page %d\n", baseName(path), opts.findPhrase, opts.findPage)
			continue
		}
		fmt.Printf("%s: %q on page %d at (%.1f, %.1f)-(%.1f, %.1f) [%s]\n",
			baseName(path), opts.findPhrase, opts.findPage,
			rect.X0, rect.Y0, rect.X1, rect.Y1, source)
	}
	return nil
}

func findPhrase(path string, opts options, log observability.Logger) (geom.Rect, string, bool) {
	doc, err := document.Open(path)
	if err != nil {
		log.Warn("document skipped",
			observability.String("path", path),
			observability.Error("err", err))
		return geom.Rect{}, "", false
	}
	defer doc.Close()

	if rect, ok := locate.NewNativeLocator(doc, log).Locate(opts.findPhrase, opts.findPage, 2); ok {
		return rect, "native", true
	}

	cache := raster.NewImageCache(raster.NewPoppler(path, raster.WithDPI(opts.dpi)))
	defer cache.Release()
	fuzzy := locate.NewFuzzyLocator(cache,
		locate.WithLanguages(opts.langs...),
		locate.WithDPI(opts.dpi),
		locate.WithDocumentName(baseName(path)),
		locate.WithDebugDir(opts.debugDir),
		locate.WithLogger(log),
	)
	if rect, ok := fuzzy.Locate(opts.findPhrase, opts.findPage, 2); ok {
		return rect, "ocr", true
	}
	return geom.Rect{}, "", false
}

func writeOutputs(opts options, catalog []fields.Descriptor, results []export.Result) error {
	out := os.Stdout
	if opts.csvPath != "" {
		f, err := os.Create(opts.csvPath)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := export.WriteCSV(out, catalog, results); err != nil {
		return err
	}

	if opts.xlsxPath != "" {
		raw, err := export.WriteXLSX(catalog, results)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.xlsxPath, raw, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}

	if opts.reportPath != "" {
		f, err := os.Create(opts.reportPath)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		if err := export.WriteMarkdown(f, catalog, results); err != nil {
			return err
		}
	}

	if opts.dbPath != "" {
		store, err := export.OpenStore(opts.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		ctx := context.Background()
		for _, r := range results {
			if err := store.SaveResult(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
