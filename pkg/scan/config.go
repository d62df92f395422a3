package scan

import (
	"errors"
	"fmt"
	"time"
)

// Config carries every knob of a scan run. It is built once in main
// and passed by value; components never read ambient state.
type Config struct {
	Input   string // gene list file, genome-ordered Entrez IDs
	OutDir  string
	Species string // short tag used in output filenames, e.g. LT2

	Email    string // DAVID-registered email
	Endpoint string

	WindowSize int
	StepSize   int

	Wait    time.Duration // pause between DAVID requests, also backoff unit
	Timeout time.Duration
	Retries int // total attempts per window

	PvalThreshold float64 // filter for secondary clusters
	MaxClusters   int     // summary slots per window

	NoPlots bool
}

// Validate reports setup problems. This runs before authentication so
// a bad invocation never touches the service.
func (c Config) Validate() error {

	if c.Email == "" {
		return errors.New("a DAVID-registered email is required (pass -email or set DAVID_EMAIL)")
	}

	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.WindowSize)
	}

	if c.StepSize <= 0 {
		return fmt.Errorf("step size must be positive, got %d", c.StepSize)
	}

	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Retries)
	}

	if c.MaxClusters < 1 {
		return fmt.Errorf("max clusters must be at least 1, got %d", c.MaxClusters)
	}

	if c.Wait < 0 {
		return fmt.Errorf("wait must not be negative, got %s", c.Wait)
	}

	return nil
}
