package ops

import (
	"time"

	"mcptool/internal/output"
)

// timed runs fn and prints how long it took on success. The measurement is
// for display only; cancellation is the transport's job.
func timed[T any](out *output.Output, label string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	if err == nil {
		out.Timing(label, time.Since(start))
	}
	return v, err
}
