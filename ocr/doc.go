// Package ocr defines the abstraction layer for plugging OCR engines into
// the extraction pipeline. The interfaces are intentionally small and
// transport-agnostic so engines can be backed by local binaries, native
// libraries, or remote APIs without leaking provider-specific concerns
// into callers. The Tesseract backend lives in the tesseract subpackage
// and registers itself as the default engine on import.
package ocr
