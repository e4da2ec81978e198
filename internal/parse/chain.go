package parse

import "github.com/aronth/innrigreifi/internal/htmldoc"

// tier is a single pure extraction attempt against the document. It reports
// whether it produced a usable value; tiers never error and never mutate.
type tier[T any] func(*htmldoc.Document) (T, bool)

// firstHit runs tiers in order and returns the first value produced. Later
// tiers are not consulted once one succeeds. The zero value and false mean
// every tier missed and the caller's documented default applies.
func firstHit[T any](doc *htmldoc.Document, tiers ...tier[T]) (T, bool) {
	for _, t := range tiers {
		if v, ok := t(doc); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
