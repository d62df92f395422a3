// Sliding windows over the genome-ordered gene list.

package model

import (
	"fmt"
)

// Window is a half-open [Start, End) slice of the gene list.
// Start/End are 0-based; labels shown to users are 1-based.
type Window struct {
	Start int
	End   int
}

// Label is the 1-based "{start+1}-{end+1}" form used in summaries.
func (w Window) Label() string {
	return fmt.Sprintf("%d-%d", w.Start+1, w.End+1)
}

// Prefix is the filename-safe form used for per-window artifacts
// and DAVID list names, e.g. "1to101".
func (w Window) Prefix() string {
	return fmt.Sprintf("%dto%d", w.Start+1, w.End+1)
}

// Windows generates every [start, start+size) window along a list of n
// genes, stepping by step. The first window always starts at 0, and
// windows are emitted in genome order.
//
// Having fewer genes than one window is a setup error; the caller is
// expected to report it before touching the network.
func Windows(n, size, step int) ([]Window, error) {

	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	if step <= 0 {
		return nil, fmt.Errorf("step size must be positive, got %d", step)
	}

	if n < size {
		return nil, fmt.Errorf("input has %d genes, fewer than window size %d", n, size)
	}

	windows := make([]Window, 0, (n-size)/step+1)

	for start := 0; start+size <= n; start += step {
		windows = append(windows, Window{Start: start, End: start + size})
	}

	return windows, nil
}
