// ABOUTME: First-success-wins combinator for ordered fallback strategies.
// ABOUTME: Used by the baseline window cascade and the badness mode cascade.
package scoring

// Strategy is one tier of a fallback cascade. It reports false when it
// cannot produce a result.
type Strategy[T any] func() (T, bool)

// FirstOf runs strategies in order and returns the first successful result.
func FirstOf[T any](strategies ...Strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
