package ads1119

import "time"

// Poll budget used by Read when Options leave it unset.
const (
	DefaultPollAttempts = 5
	DefaultPollInterval = 10 * time.Millisecond
)

// WaitReady calls ready up to attempts times, sleeping delay after every
// negative answer. Running out of attempts is reported as false with a nil
// error; an error from ready ends the wait immediately.
func WaitReady(ready func() (bool, error), attempts int, delay time.Duration) (bool, error) {
	for i := 0; i < attempts; i++ {
		ok, err := ready()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		time.Sleep(delay)
	}
	return false, nil
}
