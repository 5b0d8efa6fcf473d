package extract

import "errors"

// ErrDocumentOpen wraps failures to open the underlying document. It is
// the only fatal error in the pipeline; every other fault degrades to a
// false verdict, a missing value, or the fallback sentinel.
var ErrDocumentOpen = errors.New("document open failed")
