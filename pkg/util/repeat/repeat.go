package repeat

import "time"

// Repeat calls f until it succeeds or attempts are exhausted, sleeping delay between calls.
func Repeat(f func() error, attempts int, delay time.Duration) error {
	return While(f, attempts, delay, func(error) bool { return true })
}

// While is Repeat that stops early once retryable reports an error as terminal.
// The last error is returned unchanged. f always runs at least once.
func While(f func() error, attempts int, delay time.Duration, retryable func(error) bool) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if !retryable(err) || i == attempts-1 {
			break
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}

	return err
}
