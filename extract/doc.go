// Package extract is the core of the fixed-field pipeline: a per-page
// readability classifier decides between the native text layer and OCR,
// a selector instantiates the matching box reader with a safe default to
// OCR on any fault, and the extraction pipeline tries an ordered list of
// candidate boxes, returning the first hit or a fallback sentinel. Every
// fault below document open degrades to an absent value so batch runs
// never abort on one bad page or box.
package extract
