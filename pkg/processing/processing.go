// Package processing holds the session pipeline: extraction and cleaning of
// per-driver raw series, the fixed-rate master axis and resampling, weather
// alignment and frame assembly.
package processing

import "errors"

var (
	// ErrSessionUnprocessable: every driver of the session failed
	// extraction, there is nothing to assemble. Terminal.
	ErrSessionUnprocessable = errors.New("session unprocessable")
	// ErrAssemblyInconsistent: the master axis is empty. Terminal.
	ErrAssemblyInconsistent = errors.New("assembly inconsistent")
)
