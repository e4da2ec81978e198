package app

import "time"

// Defaults shared between flag registration and file-config overlay.
const (
	DefaultOutputPath    = "invoices.json"
	DefaultMaxConcurrent = 4
	DefaultTimeout       = 10 * time.Second
)

type Config struct {
	// InputPath is a single HTML file or a directory of them.
	InputPath  string
	OutputPath string
	PDFPath    string

	// Bulk run behavior
	MaxConcurrent int
	Timeout       time.Duration

	Verbose bool
}
