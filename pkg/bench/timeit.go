package bench

import "time"

// timed runs fn and returns its result alongside the elapsed wall-clock
// milliseconds. On failure the elapsed time is reported as zero, matching the
// record invariant that failed measurements carry no latency.
func timed[T any](fn func() (T, error)) (T, float64, error) {
	start := time.Now()
	out, err := fn()
	if err != nil {
		return out, 0, err
	}
	return out, float64(time.Since(start)) / float64(time.Millisecond), nil
}
