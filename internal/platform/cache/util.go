package cache

import (
	"strconv"
	"time"
)

// weekOffset shifts the Unix epoch (a Thursday) to the first Monday, where weekly candles open.
const weekOffset = 4 * 24 * time.Hour

// TimeUntilNextCandle returns the time left until the next candle of interval opens.
// Boundaries are aligned to the UTC Unix epoch, with weekly candles opening Monday 00:00.
// It reports false for an unsupported interval.
func TimeUntilNextCandle(interval string, now time.Time) (time.Duration, bool) {
	step, ok := intervalDuration(interval)
	if !ok {
		return 0, false
	}

	var offset time.Duration
	if interval == "1w" {
		offset = weekOffset
	}
	ms := now.UnixMilli() - offset.Milliseconds()
	stepMs := step.Milliseconds()
	next := (ms/stepMs+1)*stepMs + offset.Milliseconds()
	return time.Duration(next-now.UnixMilli()) * time.Millisecond, true
}

// intervalDuration parses exchange intervals such as "15m", "4h", "1d" and "1w".
func intervalDuration(interval string) (time.Duration, bool) {
	if len(interval) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil || n <= 0 {
		return 0, false
	}
	var unit time.Duration
	switch interval[len(interval)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	default:
		return 0, false
	}
	return time.Duration(n) * unit, true
}
