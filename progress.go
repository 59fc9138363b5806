package afmformats

import "github.com/meigma/afmformats/jpk"

// Re-export progress types from jpk.
type (
	// ProgressEvent represents a progress update while curves are loaded.
	ProgressEvent = jpk.ProgressEvent

	// ProgressFunc receives progress updates during loading.
	// It is called from the goroutine that called Load.
	ProgressFunc = jpk.ProgressFunc
)
