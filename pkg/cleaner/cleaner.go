// Package cleaner defines the interface shared by content cleaners and a few
// generic implementations for composing them.
package cleaner

// Cleaner transforms content into normalized text.
type Cleaner interface {
	// Clean transforms the input. Implementations must be safe for concurrent use.
	Clean(content string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
